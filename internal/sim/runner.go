package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/slitsim/internal/dynamo"
)

type Runner struct {
	pool      *Pool
	metrics   []Metric
	observers []Observer
}

type Result struct {
	Hits      []Hit
	Landings  []int
	Crossings int
	Exhausted int
	Ticks     int
	Metrics   map[string]float64
}

func NewRunner(pool *Pool) *Runner {
	return &Runner{
		pool:      pool,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Pool() *Pool            { return r.pool }

// Run advances the pool ticks times. The run always plays regardless of
// cfg.IsPlaying; a cancelled context stops it between ticks and returns the
// partial result alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg dynamo.SimulationConfig, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidConfig, ticks)
	}
	if cfg.ParticleCount != r.pool.Len() {
		r.pool.Rebuild(cfg)
	}
	cfg.IsPlaying = true

	result := &Result{
		Hits:     make([]Hit, 0),
		Landings: make([]int, 0, ticks),
		Metrics:  make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			r.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		r.pool.Advance(cfg, 1)
		rep := r.pool.LastReport()

		for _, m := range r.metrics {
			m.Observe(rep)
		}
		for _, obs := range r.observers {
			obs.OnTick(rep)
		}

		result.Hits = append(result.Hits, rep.Hits...)
		result.Landings = append(result.Landings, rep.Landed)
		result.Crossings += rep.Crossed
		result.Exhausted += rep.Exhausted
		result.Ticks++
	}

	r.collectMetrics(result)
	return result, nil
}

func (r *Runner) collectMetrics(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// HitXs returns the landing x coordinates in hit order.
func (res *Result) HitXs() []float64 {
	xs := make([]float64, len(res.Hits))
	for i, h := range res.Hits {
		xs[i] = h.X
	}
	return xs
}

// ExhaustionRate is the fraction of crossings whose sampler draw exhausted.
func (res *Result) ExhaustionRate() float64 {
	if res.Crossings == 0 {
		return 0
	}
	return float64(res.Exhausted) / float64(res.Crossings)
}
