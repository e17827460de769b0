package scenario

import (
	"context"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/sim"
)

// MonteCarloConfig drags a random point of Base to a random spot in the
// viewport, holds it for HoldFrames and lets go, once per trial.
type MonteCarloConfig struct {
	Base       *config.Config
	NumTrials  int
	HoldFrames int
	Seed       int64
}

type MonteCarloResult struct {
	TrialID int
	// Point is the ring index whose starting position is pressed. The body
	// grabs the first point within reach, which may be a lower index.
	Point         int
	Target        cp.Vector
	Stable        bool
	Containment   float64
	MinSeparation float64
	FinalEnergy   float64
	Err           error
}

// RunMonteCarlo runs the trials in parallel. Draws happen up front, so a
// seed fixes every trial regardless of scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w, h := cfg.Base.Viewport.Width, cfg.Base.Viewport.Height
	results := make([]MonteCarloResult, cfg.NumTrials)
	for i := range results {
		results[i] = MonteCarloResult{
			TrialID: i,
			Point:   rng.Intn(cfg.Base.Body.Points),
			Target:  cp.Vector{X: rng.Float64() * w, Y: rng.Float64() * h},
		}
	}

	sim.ParallelFor(len(results), 1, func(start, end int) {
		for i := start; i < end; i++ {
			runTrial(ctx, cfg, &results[i])
		}
	})

	for _, r := range results {
		if r.Err != nil {
			return results, r.Err
		}
	}
	return results, nil
}

func runTrial(ctx context.Context, mc *MonteCarloConfig, r *MonteCarloResult) {
	cfg := mc.Base.Clone()
	grab := cfg.NewBody().Point(r.Point).Position
	cfg.Script = []input.Step{
		{Frame: 0, Kind: "press", X: grab.X, Y: grab.Y},
		{Frame: 0, Kind: "move", X: r.Target.X, Y: r.Target.Y},
		{Frame: mc.HoldFrames, Kind: "release"},
	}

	s, simCfg, err := Prepare(cfg)
	if err != nil {
		r.Err = err
		return
	}
	result, err := s.Run(ctx, simCfg)
	if err != nil {
		r.Err = err
		return
	}

	r.Stable = len(result.Errors) == 0
	r.Containment = result.Metrics["containment"]
	r.MinSeparation = result.Metrics["min_separation"]
	r.FinalEnergy = result.Metrics["kinetic_energy_final"]
}
