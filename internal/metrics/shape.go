package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/softbody"
)

// Containment is the fraction of frames with every point inside bounds.
type Containment struct {
	name    string
	bounds  softbody.Bounds
	inside  int
	samples int
}

func NewContainment(bounds softbody.Bounds) *Containment {
	return &Containment{name: "containment", bounds: bounds}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(b *softbody.Body, t float64) {
	c.samples++
	for _, p := range b.Positions() {
		if !c.bounds.Contains(p) {
			return
		}
	}
	c.inside++
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.samples)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.samples = 0
}

// MinSeparation is the smallest distance between any two points over a run.
type MinSeparation struct {
	name string
	min  float64
	seen bool
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation"}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(b *softbody.Body, t float64) {
	pos := b.Positions()
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			d := pos[i].Distance(pos[j])
			if math.IsNaN(d) {
				continue
			}
			if !m.seen || d < m.min {
				m.min = d
				m.seen = true
			}
		}
	}
}

func (m *MinSeparation) Value() float64 { return m.min }

func (m *MinSeparation) Reset() {
	m.min = 0
	m.seen = false
}

// DefaultSettleThreshold is the kinetic energy below which a body counts as
// resting.
const DefaultSettleThreshold = 1e4

// Defaults returns the metrics a headless run reports.
func Defaults(bounds softbody.Bounds) []sim.Metric {
	return []sim.Metric{
		NewMeanKineticEnergy(),
		NewFinalKineticEnergy(),
		NewSettling(DefaultSettleThreshold),
		NewContainment(bounds),
		NewMinSeparation(),
		NewStability(),
		NewPeakForce(),
	}
}
