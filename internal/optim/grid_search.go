package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/experiment"
)

// Objective scores a finished run. Lower is better.
type Objective func(out *experiment.Outcome, cfg *config.Config) float64

// GridSearch evaluates every combination of parameter values and keeps the
// lowest scoring one.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Best is the winning parameter set.
type Best struct {
	Params map[string]float64
	Score  float64
	Runs   int
}

func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%w: %d params but %d ranges", dynamo.ErrInvalidConfig, len(g.paramNames), len(g.ranges))
	}
	probe := base.Simulation
	for _, name := range g.paramNames {
		if _, ok := probe.Param(name); !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
		}
	}

	best := &Best{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, best); err != nil {
		return best, err
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			field, _ := cfg.Simulation.Param(name)
			*field = v
		}

		exp, err := experiment.New("grid", &cfg)
		if err != nil {
			// combinations that fail validation are skipped
			return nil
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		best.Runs++

		if val := objective(out, &cfg); val < best.Score {
			best.Score = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, best); err != nil {
			return err
		}
	}
	return nil
}

// SpacingError scores how far the measured fringe period is from target.
func SpacingError(target float64) Objective {
	return func(out *experiment.Outcome, cfg *config.Config) float64 {
		if math.IsInf(out.Period, 0) || math.IsNaN(out.Period) {
			return math.Inf(1)
		}
		return math.Abs(out.Period - target)
	}
}

// BestFit prefers runs whose landings agree best with the predicted field.
func BestFit(out *experiment.Outcome, cfg *config.Config) float64 {
	return -out.Fit.PValue
}

// Linspace returns n evenly spaced values across [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
