package experiment

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"regressdemo/internal/population"
	"regressdemo/internal/stats"
)

var ErrNoWeights = errors.New("sweep needs at least one weight")

// Sweep measures how far the previous extremes move back toward the mean
// after reshuffling, for each genetic weight, over many independent trials.
type Sweep struct {
	Size     int       // individuals per session
	Mean     float64   // normal mean for both components
	StdDev   float64   // normal std dev for both components
	RankSize int       // top/bottom set size
	Weights  []float64 // genetic weights to evaluate
	Trials   int       // independent sessions per weight
	Rounds   int       // reshuffles per session
	BaseSeed uint64    // trial t of every weight uses seed BaseSeed+t+1
	Workers  int       // concurrent sessions, <= 0 means NumCPU
}

// Result aggregates one weight's trials.
// TopChange and BottomChange summarize the per-trial mean change of the
// ids that were extreme before each reshuffle.
type Result struct {
	Weight       float64       `json:"weight"`
	Trials       int           `json:"trials"`
	TopChange    stats.Summary `json:"top_change"`
	BottomChange stats.Summary `json:"bottom_change"`
}

// TrialResult holds one session's mean changes, averaged over its rounds
type TrialResult struct {
	TopChange    float64
	BottomChange float64
}

// Run evaluates every (weight, trial) pair on a bounded worker pool.
// Each session stays on one goroutine.
func (sw Sweep) Run(ctx context.Context) ([]Result, error) {
	if len(sw.Weights) == 0 {
		return nil, ErrNoWeights
	}
	if sw.Size < 1 {
		return nil, population.ErrEmptyPopulation
	}
	trials := max(sw.Trials, 1)
	workers := sw.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([][]TrialResult, len(sw.Weights))
	for i := range out {
		out[i] = make([]TrialResult, trials)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for wi, w := range sw.Weights {
		for t := 0; t < trials; t++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := sw.RunTrial(w, sw.BaseSeed+uint64(t)+1)
				if err != nil {
					return err
				}
				out[wi][t] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, len(sw.Weights))
	for wi, w := range sw.Weights {
		tops := make([]float64, trials)
		bottoms := make([]float64, trials)
		for t, r := range out[wi] {
			tops[t] = r.TopChange
			bottoms[t] = r.BottomChange
		}
		results[wi] = Result{
			Weight:       w,
			Trials:       trials,
			TopChange:    stats.Summarize(tops),
			BottomChange: stats.Summarize(bottoms),
		}
	}
	return results, nil
}

// RunTrial runs one seeded session at weight w for the configured rounds
func (sw Sweep) RunTrial(w float64, seed uint64) (TrialResult, error) {
	opts := []population.Option{population.WithWeight(w)}
	if sw.RankSize > 0 {
		opts = append(opts, population.WithRankSize(sw.RankSize))
	}
	s, err := population.NewSession(sw.Size, population.NewNormalSource(sw.Mean, sw.StdDev, seed), opts...)
	if err != nil {
		return TrialResult{}, err
	}

	rounds := max(sw.Rounds, 1)
	tops := make([]float64, rounds)
	bottoms := make([]float64, rounds)
	for r := 0; r < rounds; r++ {
		s.Reshuffle()
		d := s.Deltas()
		tops[r] = stats.MeanChange(population.Changes(d.PreviousTop))
		bottoms[r] = stats.MeanChange(population.Changes(d.PreviousBottom))
	}
	return TrialResult{
		TopChange:    stats.MeanChange(tops),
		BottomChange: stats.MeanChange(bottoms),
	}, nil
}
