package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/softbody"
)

func newBody(p softbody.Params) *softbody.Body {
	return softbody.New(cp.Vector{X: 800, Y: 450}, 20, p)
}

type countMetric struct {
	count int
	last  float64
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(b *softbody.Body, t float64) {
	c.count++
	c.last = t
}
func (c *countMetric) Value() float64 { return float64(c.count) }
func (c *countMetric) Reset()         { c.count = 0 }

type frameLog struct{ frames []int }

func (f *frameLog) OnFrame(frame int, _ *softbody.Body, _ float64) {
	f.frames = append(f.frames, frame)
}

func TestSimulatorRun(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	cfg := DefaultConfig()
	cfg.Frames = 120

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 121 {
		t.Errorf("expected 121 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 120 {
		t.Errorf("expected 120 steps, got %d", result.StepsTaken)
	}

	last, _ := result.Last()
	if math.Abs(last.Time-120.0/60) > 1e-9 {
		t.Errorf("expected final time 2s, got %f", last.Time)
	}
	if last.Centroid.Y <= result.Frames[0].Centroid.Y {
		t.Errorf("expected the body to fall: %f -> %f", result.Frames[0].Centroid.Y, last.Centroid.Y)
	}
	if last.Points != nil {
		t.Error("points should not be recorded by default")
	}
}

func TestSimulatorTimeUsesClampedStep(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	cfg := DefaultConfig()
	cfg.Dt = 0.1
	cfg.Frames = 10

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	last, _ := result.Last()
	if math.Abs(last.Time-0.2) > 1e-9 {
		t.Errorf("expected 10 clamped steps of 0.02s, got t=%f", last.Time)
	}
}

func TestSimulatorStrideAndPoints(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	cfg := DefaultConfig()
	cfg.Frames = 25
	cfg.Stride = 10
	cfg.RecordPoints = true

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var got []int
	for _, f := range result.Frames {
		got = append(got, f.Index)
		if len(f.Points) != 20 || len(f.Forces) != 20 {
			t.Errorf("frame %d: expected 20 points and forces", f.Index)
		}
	}
	want := []int{0, 10, 20, 25}
	if len(got) != len(want) {
		t.Fatalf("expected frames %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected frames %v, got %v", want, got)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.1 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"empty bounds", func(c *Config) { c.Bounds = softbody.Bounds{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := s.Run(context.Background(), cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	metric := &countMetric{}
	obs := &frameLog{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	cfg := DefaultConfig()
	cfg.Frames = 10
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 10 {
		t.Errorf("expected 10 observations, got %f", result.Metrics["count"])
	}
	if len(obs.frames) != 10 || obs.frames[0] != 0 || obs.frames[9] != 9 {
		t.Errorf("unexpected observer frames %v", obs.frames)
	}
}

func TestSimulatorDetectsInvalidState(t *testing.T) {
	p := softbody.DefaultParams()
	p.Gravity = math.NaN()
	s := New(newBody(p))

	result, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run should report state errors in the result, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected SimulationError, got %T", result.Errors[0])
	}
	if simErr.Frame != 0 || !errors.Is(simErr, ErrInvalidState) {
		t.Errorf("unexpected error %v", simErr)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no completed steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, DefaultConfig())
	if !errors.Is(err, ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation error, got %v", err)
	}
	if result == nil || len(result.Frames) != 1 {
		t.Error("expected the initial frame in a partial result")
	}
}

func TestSimulatorScriptedDrag(t *testing.T) {
	script, err := input.NewScript([]input.Step{
		{Frame: 0, Kind: "press", X: 830, Y: 450},
		{Frame: 0, Kind: "move", X: 0, Y: 0},
		{Frame: 5, Kind: "release"},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(newBody(softbody.DefaultParams()))
	cfg := DefaultConfig()
	cfg.Frames = 20
	cfg.Input = script
	cfg.RecordPoints = true

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, f := range result.Frames[1:] {
		wantDrag := f.Index <= 5
		if f.Dragging != wantDrag {
			t.Errorf("frame %d: expected dragging=%v", f.Index, wantDrag)
		}
		if f.Dragging && f.Points[0] != (cp.Vector{}) {
			t.Errorf("frame %d: dragged point left the target: %v", f.Index, f.Points[0])
		}
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	s := New(newBody(softbody.DefaultParams()))
	calls := 0
	err := s.RunWithCallback(context.Background(), DefaultConfig(), func(frame int, b *softbody.Body, _ float64) bool {
		calls++
		return frame < 4
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestSweepKeepsOrder(t *testing.T) {
	values := []float64{250, 500, 1000, 2000, 4000}
	cfg := DefaultConfig()
	cfg.Frames = 60

	results := Sweep(context.Background(), cfg, values, func(v float64) (*Simulator, error) {
		p := softbody.DefaultParams()
		p.Stiffness = v
		return New(newBody(p)), nil
	})

	if len(results) != len(values) {
		t.Fatalf("expected %d results, got %d", len(values), len(results))
	}
	for i, r := range results {
		if r.Value != values[i] {
			t.Errorf("result %d: expected value %f, got %f", i, values[i], r.Value)
		}
		if r.Err != nil || r.Result == nil || r.Result.StepsTaken != 60 {
			t.Errorf("result %d: unexpected outcome %+v", i, r)
		}
	}
}

func TestSweepBuildError(t *testing.T) {
	boom := errors.New("boom")
	results := Sweep(context.Background(), DefaultConfig(), []float64{1}, func(float64) (*Simulator, error) {
		return nil, boom
	})
	if !errors.Is(results[0].Err, boom) {
		t.Errorf("expected build error, got %v", results[0].Err)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	seen := make([]int, 37)
	ParallelFor(len(seen), 4, func(start, end int) {
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	for i, n := range seen {
		if n != 1 {
			t.Errorf("index %d visited %d times", i, n)
		}
	}
}
