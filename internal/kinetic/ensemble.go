package kinetic

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Ensemble runs independently seeded engines over the same parameters.
type Ensemble struct {
	base      Params
	numRuns   int
	seedStart int64
}

// RunResult is one ensemble member's outcome.
type RunResult struct {
	Seed    int64
	History []float64
}

func NewEnsemble(p Params, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: p, numRuns: numRuns, seedStart: seedStart}
}

// Run steps every member for ticks steps, one goroutine per member. Run i
// uses seed seedStart+i, so results are reproducible regardless of scheduling.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]RunResult, error) {
	if err := e.base.Validate(); err != nil {
		return nil, err
	}

	results := make([]RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			p := e.base
			p.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = runOne(ctx, p, ticks)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func runOne(ctx context.Context, p Params, ticks int) (RunResult, error) {
	eng, err := New(p)
	if err != nil {
		return RunResult{}, err
	}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return RunResult{}, ctx.Err()
		default:
		}

		eng.Step()
		if err := eng.Check(); err != nil {
			return RunResult{}, err
		}
	}
	return RunResult{Seed: p.Seed, History: eng.History()}, nil
}

// ConvergenceRatio divides the mean of the last frac of history by the mean
// of the first frac. Values below 1 mean the swarm slowed down. It returns
// NaN when either window is empty or the early window averages to zero.
func ConvergenceRatio(history []float64, frac float64) float64 {
	n := int(math.Round(float64(len(history)) * frac))
	if n < 1 || n > len(history) {
		return math.NaN()
	}
	early := stat.Mean(history[:n], nil)
	late := stat.Mean(history[len(history)-n:], nil)
	if early == 0 {
		return math.NaN()
	}
	return late / early
}

// MeanHistory averages histories element-wise, truncated to the shortest.
func MeanHistory(runs []RunResult) []float64 {
	if len(runs) == 0 {
		return nil
	}
	n := len(runs[0].History)
	for _, r := range runs[1:] {
		n = min(n, len(r.History))
	}
	out := make([]float64, n)
	for _, r := range runs {
		for i := range out {
			out[i] += r.History[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(runs))
	}
	return out
}
