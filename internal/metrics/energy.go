package metrics

import (
	"github.com/san-kum/softbody/internal/softbody"
)

// KineticEnergy reports either the mean or the final kinetic energy of a run.
type KineticEnergy struct {
	name    string
	final   bool
	sum     float64
	last    float64
	samples int
}

func NewMeanKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy_mean"}
}

func NewFinalKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy_final", final: true}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(b *softbody.Body, t float64) {
	k.last = b.KineticEnergy()
	k.sum += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.final {
		return k.last
	}
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.last = 0
	k.samples = 0
}

// Settling counts the frames until kinetic energy drops below threshold for
// good. Value is -1 while the body is still above it.
type Settling struct {
	name      string
	threshold float64
	samples   int
	settledAt int
	settled   bool
}

func NewSettling(threshold float64) *Settling {
	return &Settling{
		name:      "settling_frames",
		threshold: threshold,
	}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(b *softbody.Body, t float64) {
	s.samples++
	if b.KineticEnergy() >= s.threshold {
		s.settled = false
		return
	}
	if !s.settled {
		s.settled = true
		s.settledAt = s.samples
	}
}

func (s *Settling) Value() float64 {
	if !s.settled {
		return -1
	}
	return float64(s.settledAt)
}

func (s *Settling) Reset() {
	s.samples = 0
	s.settledAt = 0
	s.settled = false
}
