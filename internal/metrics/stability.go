package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/softbody"
)

// Stability is the fraction of frames whose state is entirely finite.
// An unobserved run counts as stable.
type Stability struct {
	valid, frames int
}

func NewStability() *Stability { return &Stability{} }

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(b *softbody.Body, _ float64) {
	s.frames++
	if b.IsValid() {
		s.valid++
	}
}

func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return float64(s.valid) / float64(s.frames)
}

func (s *Stability) Reset() { *s = Stability{} }

// PeakForce is the largest net force seen on any single point.
type PeakForce struct {
	name string
	peak float64
}

func NewPeakForce() *PeakForce {
	return &PeakForce{name: "peak_force"}
}

func (p *PeakForce) Name() string { return p.name }

func (p *PeakForce) Observe(b *softbody.Body, t float64) {
	for i := 0; i < b.Len(); i++ {
		f := b.Point(i).Force.Length()
		if !math.IsNaN(f) && f > p.peak {
			p.peak = f
		}
	}
}

func (p *PeakForce) Value() float64 { return p.peak }
func (p *PeakForce) Reset()         { p.peak = 0 }
