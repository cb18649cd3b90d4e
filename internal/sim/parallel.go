package sim

import (
	"context"
	"sync"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sampler"
)

// Ensemble runs independent pools with consecutive seeds concurrently.
type Ensemble struct {
	sc        dynamo.Scale
	sampler   *sampler.Sampler
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewEnsemble(sc dynamo.Scale, s *sampler.Sampler, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{sc: sc, sampler: s, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory producing fresh metrics for each member run.
func (e *Ensemble) WithMetrics(f func() []Metric) *Ensemble {
	e.metrics = f
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg dynamo.SimulationConfig, ticks int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			pool := NewPool(cfg, e.sc, WithSeed(e.seedStart+int64(idx)), WithSampler(e.sampler))
			r := NewRunner(pool)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, cfg, ticks)
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
