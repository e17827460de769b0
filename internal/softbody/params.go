package softbody

import (
	"errors"
	"fmt"
)

const (
	DefaultRestRadius = 30.0
	DefaultStiffness  = 1000.0
	DefaultDamping    = 0.1
	DefaultPressure   = 5000.0
	DefaultGravity    = 980.0 // simulation units / s²
	DefaultMass       = 1.0
	DefaultMaxDt      = 0.02 // s

	// Epsilon is the distance below which a pairwise or centroid-relative
	// force is skipped.
	Epsilon = 1e-5

	// ForceSmoothing is the weight kept from the previous smoothed force.
	ForceSmoothing = 0.9

	// ForceIndicatorScale maps a smoothed force to an on-screen segment length.
	ForceIndicatorScale = 0.003
)

var ErrParameterBounds = errors.New("softbody: parameter out of valid bounds")

// Params holds the physical tuning of a body.
type Params struct {
	RestRadius float64 // spring rest length, initial radius, repulsion threshold ×2
	Stiffness  float64 // spring and repulsion constant
	Damping    float64 // velocity decay per second and bounce restitution loss
	Pressure   float64 // outward force magnitude per point
	Gravity    float64 // downward acceleration (+y)
	Mass       float64 // mass of every point
	MaxDt      float64 // integration step cap
}

func DefaultParams() Params {
	return Params{
		RestRadius: DefaultRestRadius,
		Stiffness:  DefaultStiffness,
		Damping:    DefaultDamping,
		Pressure:   DefaultPressure,
		Gravity:    DefaultGravity,
		Mass:       DefaultMass,
		MaxDt:      DefaultMaxDt,
	}
}

// Validate reports the first parameter outside its usable range.
// New does not call it; construction with bad params is undefined.
func (p Params) Validate() error {
	switch {
	case p.RestRadius <= 0:
		return fmt.Errorf("rest_radius must be positive, got %g: %w", p.RestRadius, ErrParameterBounds)
	case p.Stiffness < 0:
		return fmt.Errorf("stiffness must be non-negative, got %g: %w", p.Stiffness, ErrParameterBounds)
	case p.Damping < 0:
		return fmt.Errorf("damping must be non-negative, got %g: %w", p.Damping, ErrParameterBounds)
	case p.Mass <= 0:
		return fmt.Errorf("mass must be positive, got %g: %w", p.Mass, ErrParameterBounds)
	case p.MaxDt <= 0:
		return fmt.Errorf("max_dt must be positive, got %g: %w", p.MaxDt, ErrParameterBounds)
	}
	return nil
}

// GetParams returns the tunable parameters by name.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"rest_radius": p.RestRadius,
		"stiffness":   p.Stiffness,
		"damping":     p.Damping,
		"pressure":    p.Pressure,
		"gravity":     p.Gravity,
	}
}

// SetParam updates a named parameter. Mass and MaxDt are construction-only.
func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "rest_radius":
		p.RestRadius = value
	case "stiffness":
		p.Stiffness = value
	case "damping":
		p.Damping = value
	case "pressure":
		p.Pressure = value
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
