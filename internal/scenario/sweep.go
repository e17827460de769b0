package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/sim"
)

// ParameterSweep runs one body per evenly spaced value of Param.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
}

// Values returns the swept parameter values, endpoints included.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	values := make([]float64, sw.NumSteps)
	for i := range values {
		values[i] = sw.ParamMin + float64(i)*step
	}
	return values
}

// RunSweep executes the sweep in parallel; results keep value order.
func RunSweep(ctx context.Context, sw *ParameterSweep) ([]sim.SweepResult, error) {
	probe := sw.Base.Clone()
	if err := probe.SetParam(sw.Param, sw.ParamMin); err != nil {
		return nil, err
	}
	_, simCfg, err := Prepare(probe)
	if err != nil {
		return nil, err
	}

	return sim.Sweep(ctx, simCfg, sw.Values(), func(v float64) (*sim.Simulator, error) {
		cfg := sw.Base.Clone()
		if err := cfg.SetParam(sw.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}
		s, _, err := Prepare(cfg)
		return s, err
	}), nil
}
