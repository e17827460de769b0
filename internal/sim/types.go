package sim

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/softbody"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(b *softbody.Body, t float64)
	Value() float64
	Reset()
}

// Observer sees the body after every frame. Renderers and recorders
// implement it.
type Observer interface {
	OnFrame(frame int, b *softbody.Body, t float64)
}

type Config struct {
	Dt            float64
	Frames        int
	Bounds        softbody.Bounds
	Input         input.Source // may be nil; shared across Sweep workers, so Poll must be read-only
	RecordPoints  bool
	Stride        int // record every Stride-th frame; 0 or 1 records all
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Frames:        600,
		Bounds:        softbody.Bounds{Width: 1600, Height: 900},
		ValidateState: true,
	}
}

// Frame is one recorded sample.
type Frame struct {
	Index         int
	Time          float64
	Centroid      cp.Vector
	KineticEnergy float64
	Dragging      bool
	Points        []cp.Vector // nil unless RecordPoints
	Forces        []cp.Vector // smoothed forces, nil unless RecordPoints
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Last returns the final recorded frame.
func (r *Result) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Series extracts one scalar per recorded frame.
func (r *Result) Series(fn func(Frame) float64) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = fn(f)
	}
	return out
}

func CentroidY(f Frame) float64     { return f.Centroid.Y }
func CentroidX(f Frame) float64     { return f.Centroid.X }
func KineticEnergy(f Frame) float64 { return f.KineticEnergy }
