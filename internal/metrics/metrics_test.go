package metrics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

var viewport = softbody.Bounds{Width: 1600, Height: 900}

// hexagon returns a ring whose chords equal the rest length, so springs are
// relaxed and no pair is close enough to repel.
func hexagon(mutate func(*softbody.Params)) *softbody.Body {
	p := softbody.DefaultParams()
	if mutate != nil {
		mutate(&p)
	}
	return softbody.New(cp.Vector{X: 800, Y: 450}, 6, p)
}

func TestKineticEnergyMeanAndFinal(t *testing.T) {
	b := softbody.New(cp.Vector{X: 800, Y: 450}, 20, softbody.DefaultParams())
	mean := NewMeanKineticEnergy()
	final := NewFinalKineticEnergy()

	mean.Observe(b, 0)
	final.Observe(b, 0)
	if mean.Value() != 0 || final.Value() != 0 {
		t.Fatal("expected zero energy at rest")
	}

	b.Update(1.0/60, viewport)
	ke := b.KineticEnergy()
	mean.Observe(b, 0.02)
	final.Observe(b, 0.02)

	if math.Abs(final.Value()-ke) > 1e-9 {
		t.Errorf("expected final %f, got %f", ke, final.Value())
	}
	if math.Abs(mean.Value()-ke/2) > 1e-9 {
		t.Errorf("expected mean %f, got %f", ke/2, mean.Value())
	}

	mean.Reset()
	if mean.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSettling(t *testing.T) {
	rest := hexagon(func(p *softbody.Params) {
		p.Gravity = 0
		p.Pressure = 0
	})
	s := NewSettling(1)
	for i := 0; i < 5; i++ {
		rest.Update(1.0/60, viewport)
		s.Observe(rest, 0)
	}
	if s.Value() != 1 {
		t.Errorf("resting body should settle on the first frame, got %f", s.Value())
	}

	falling := hexagon(nil)
	falling.Update(1.0/60, viewport)
	s = NewSettling(1)
	s.Observe(falling, 0)
	if s.Value() != -1 {
		t.Errorf("falling body should not count as settled, got %f", s.Value())
	}
}

func TestContainment(t *testing.T) {
	b := hexagon(nil)

	inside := NewContainment(viewport)
	inside.Observe(b, 0)
	if inside.Value() != 1 {
		t.Errorf("expected full containment, got %f", inside.Value())
	}

	outside := NewContainment(softbody.Bounds{Width: 10, Height: 10})
	outside.Observe(b, 0)
	if outside.Value() != 0 {
		t.Errorf("expected no containment, got %f", outside.Value())
	}
}

func TestMinSeparation(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want float64
	}{
		{"hexagon", 6, 30},
		{"twenty", 20, 2 * 30 * math.Sin(math.Pi/20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := softbody.New(cp.Vector{X: 800, Y: 450}, tt.n, softbody.DefaultParams())
			m := NewMinSeparation()
			m.Observe(b, 0)
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestStability(t *testing.T) {
	s := NewStability()
	if s.Value() != 1 {
		t.Error("expected stable with no samples")
	}

	good := hexagon(nil)
	good.Update(1.0/60, viewport)
	s.Observe(good, 0)

	bad := hexagon(func(p *softbody.Params) { p.Gravity = math.NaN() })
	bad.Update(1.0/60, viewport)
	s.Observe(bad, 0)

	if s.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", s.Value())
	}
}

func TestPeakForcePressureOnly(t *testing.T) {
	b := hexagon(func(p *softbody.Params) { p.Gravity = 0 })
	b.Update(1.0/60, viewport)

	m := NewPeakForce()
	m.Observe(b, 0)
	if math.Abs(m.Value()-softbody.DefaultPressure) > 1e-6 {
		t.Errorf("expected peak %f, got %f", softbody.DefaultPressure, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDefaultsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults(viewport) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 metrics, got %d", len(seen))
	}
}
