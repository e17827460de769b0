package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/softbody"
)

// Simulator steps one body headlessly. Not safe for concurrent use.
type Simulator struct {
	body      *softbody.Body
	metrics   []Metric
	observers []Observer
}

func New(body *softbody.Body) *Simulator {
	return &Simulator{
		body:      body,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Body() *softbody.Body   { return s.body }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	stride := cfg.Stride
	if stride < 1 {
		stride = 1
	}
	result := &Result{
		Frames:  make([]Frame, 0, cfg.Frames/stride+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	log := logger.L().With("points", s.body.Len(), "frames", cfg.Frames)
	log.Debug("run started", "dt", cfg.Dt)

	step := math.Min(cfg.Dt, s.body.Params().MaxDt)
	t := 0.0
	result.Frames = append(result.Frames, s.capture(0, t, cfg.RecordPoints))

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		input.Drain(s.body, cfg.Input, i)
		s.body.Update(cfg.Dt, cfg.Bounds)
		t += step

		if cfg.ValidateState && !s.body.IsValid() {
			err := &SimulationError{Frame: i, Time: t, Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			log.Warn("run aborted", "error", err)
			break
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(s.body, t)
		}
		for _, o := range s.observers {
			o.OnFrame(i, s.body, t)
		}

		if (i+1)%stride == 0 || i == cfg.Frames-1 {
			result.Frames = append(result.Frames, s.capture(i+1, t, cfg.RecordPoints))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	log.Debug("run finished", "steps", result.StepsTaken, "errors", len(result.Errors))

	return result, nil
}

// RunWithCallback steps until cfg.Frames or until callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(frame int, b *softbody.Body, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	step := math.Min(cfg.Dt, s.body.Params().MaxDt)
	t := 0.0
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		input.Drain(s.body, cfg.Input, i)
		s.body.Update(cfg.Dt, cfg.Bounds)
		t += step

		if cfg.ValidateState && !s.body.IsValid() {
			return &SimulationError{Frame: i, Time: t, Wrapped: ErrInvalidState}
		}
		if !callback(i, s.body, t) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) capture(index int, t float64, withPoints bool) Frame {
	_, dragging := s.body.Dragged()
	f := Frame{
		Index:         index,
		Time:          t,
		Centroid:      s.body.Centroid(),
		KineticEnergy: s.body.KineticEnergy(),
		Dragging:      dragging,
	}
	if withPoints {
		pts := s.body.Snapshot()
		f.Points = make([]cp.Vector, len(pts))
		f.Forces = make([]cp.Vector, len(pts))
		for j, p := range pts {
			f.Points[j] = p.Position
			f.Forces[j] = p.PreviousForce
		}
	}
	return f
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, ErrInvalidConfig)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d: %w", cfg.Frames, ErrInvalidConfig)
	}
	if cfg.Bounds.Width <= 0 || cfg.Bounds.Height <= 0 {
		return fmt.Errorf("bounds must be positive, got %gx%g: %w", cfg.Bounds.Width, cfg.Bounds.Height, ErrInvalidConfig)
	}
	return nil
}
