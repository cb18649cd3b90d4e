package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/compute"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/sampler"
	"github.com/san-kum/slitsim/internal/sim"
	"github.com/san-kum/slitsim/internal/storage"
)

// Experiment is one headless run of a config: pool, runner and standard
// metrics, followed by a comparison of the landings against the field.
type Experiment struct {
	name    string
	cfg     config.Config
	backend compute.Backend
	pool    *sim.Pool
	runner  *sim.Runner
}

// Outcome bundles a run with its pattern analysis.
type Outcome struct {
	Result    *sim.Result
	Histogram []float64
	Expected  []float64
	Fit       analysis.Fit
	Period    float64
	Spacing   float64
	Elapsed   time.Duration
}

// Backend resolves the configured execution backend.
func Backend(r config.RunConfig) compute.Backend {
	if r.Parallel {
		return compute.NewCPUBackend()
	}
	return compute.ByName(r.Backend)
}

func New(name string, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		slog.Warn("config_warning", "run", name, "msg", w)
	}

	smp := sampler.New(cfg.Scale, sampler.WithMaxAttempts(cfg.Run.MaxAttempts))
	backend := Backend(cfg.Run)
	pool := sim.NewPool(cfg.Simulation, cfg.Scale,
		sim.WithSeed(cfg.Run.Seed),
		sim.WithBackend(backend),
		sim.WithSampler(smp),
	)

	runner := sim.NewRunner(pool)
	for _, m := range metrics.Standard(analysis.FringeSpacing(cfg.Simulation, cfg.Scale) / 2) {
		runner.AddMetric(m)
	}

	return &Experiment{
		name:    name,
		cfg:     *cfg,
		backend: backend,
		pool:    pool,
		runner:  runner,
	}, nil
}

// AddObserver forwards per-tick reports, for progress output.
func (e *Experiment) AddObserver(o sim.Observer) { e.runner.AddObserver(o) }

func (e *Experiment) Pool() *sim.Pool { return e.pool }

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	ticks := e.cfg.Run.Ticks
	if ticks <= 0 {
		ticks = config.DefaultTicks
	}
	bins := e.cfg.Run.Bins
	if bins <= 0 {
		bins = config.DefaultBins
	}

	slog.Info("run_start",
		"run", e.name,
		"particles", e.pool.Len(),
		"ticks", ticks,
		"backend", e.backend.Name(),
		"seed", e.cfg.Run.Seed,
	)

	start := time.Now()
	res, err := e.runner.Run(ctx, e.cfg.Simulation, ticks)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", e.name, err)
	}

	out := Analyze(res, &e.cfg, bins)
	out.Elapsed = time.Since(start)

	slog.Info("run_complete",
		"run", e.name,
		"hits", len(res.Hits),
		"exhaustion", res.ExhaustionRate(),
		"chi_square", out.Fit.ChiSquare,
		"p_value", out.Fit.PValue,
		"elapsed", out.Elapsed,
	)
	return out, nil
}

// Analyze bins the landings across the screen and compares them with the
// field predicted for cfg.
func Analyze(res *sim.Result, cfg *config.Config, bins int) *Outcome {
	half := cfg.Scale.HalfWidth()
	hist := analysis.Histogram(res.HitXs(), -half, half, bins)
	exp := analysis.Expected(cfg.Simulation, cfg.Scale, -half, half, bins, len(res.Hits))
	return &Outcome{
		Result:    res,
		Histogram: hist,
		Expected:  exp,
		Fit:       analysis.GoodnessOfFit(hist, exp),
		Period:    analysis.DominantPeriod(hist, cfg.Scale.ScreenWidth/float64(bins)),
		Spacing:   analysis.FringeSpacing(cfg.Simulation, cfg.Scale),
	}
}

// Metadata describes the outcome for the run store.
func (e *Experiment) Metadata(out *Outcome) storage.RunMetadata {
	fit := out.Fit
	return storage.RunMetadata{
		Name:       e.name,
		Seed:       e.cfg.Run.Seed,
		Ticks:      out.Result.Ticks,
		Backend:    e.backend.Name(),
		Simulation: e.cfg.Simulation,
		Scale:      e.cfg.Scale,
		Metrics:    out.Result.Metrics,
		Fit:        &fit,
	}
}

// Save writes an outcome to the run store and returns its id.
func (e *Experiment) Save(st *storage.Store, out *Outcome) (string, error) {
	id, err := st.Save(e.Metadata(out), out.Result.Hits)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", e.name, err)
	}
	slog.Info("run_saved", "id", id, "dir", st.Dir())
	return id, nil
}
