package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/scenario"
)

var ErrNoCandidate = errors.New("optim: no parameter combination completed")

// GridSearch tries every combination of the given parameter values and
// keeps the one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidates is the number of runs Search will make.
func (g *GridSearch) Candidates() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base once per combination. Runs that fail to build, diverge,
// or lack the metric are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	// idx walks the grid like an odometer, last parameter fastest.
	idx := make([]int, len(g.ranges))
	for n := g.Candidates(); n > 0; n-- {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		current := make(map[string]float64, len(idx))
		for d, i := range idx {
			current[g.paramNames[d]] = g.ranges[d][i]
		}
		val, ok, err := g.evaluate(ctx, base, current, metricName)
		if err != nil {
			return nil, 0, err
		}
		if ok && val < best {
			best, bestParams = val, current
		}

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < len(g.ranges[d]) {
				break
			}
			idx[d] = 0
		}
	}

	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

// evaluate runs one candidate. An unknown parameter name is an error; a
// candidate that cannot run is reported as not ok.
func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) (float64, bool, error) {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return 0, false, err
		}
	}
	if cfg.Validate() != nil {
		return 0, false, nil
	}

	s, simCfg, err := scenario.Prepare(cfg)
	if err != nil {
		return 0, false, nil
	}
	result, err := s.Run(ctx, simCfg)
	if err != nil || len(result.Errors) > 0 {
		return 0, false, nil
	}

	val, ok := result.Metrics[metricName]
	return val, ok, nil
}
