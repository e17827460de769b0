package sim

import (
	"context"
	"runtime"
	"sync"
)

// SweepResult pairs a swept parameter value with its run.
type SweepResult struct {
	Value  float64
	Result *Result
	Err    error
}

// Build returns a fresh simulator for one swept value. Each call must
// produce its own body; bodies are never shared between workers.
type Build func(value float64) (*Simulator, error)

// Sweep runs one simulation per value in parallel. Results keep the order
// of values.
func Sweep(ctx context.Context, cfg Config, values []float64, build Build) []SweepResult {
	results := make([]SweepResult, len(values))
	ParallelFor(len(values), 1, func(start, end int) {
		for i := start; i < end; i++ {
			results[i].Value = values[i]
			s, err := build(values[i])
			if err != nil {
				results[i].Err = err
				continue
			}
			results[i].Result, results[i].Err = s.Run(ctx, cfg)
		}
	})
	return results
}

// ParallelFor executes fn over [0, n) in contiguous chunks of at least
// minChunk, one goroutine per chunk.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := runtime.GOMAXPROCS(0)
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
