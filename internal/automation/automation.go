package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/experiment"
	"github.com/san-kum/slitsim/internal/storage"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the scenario base for one run. Unset fields keep
// the base values.
type ScenarioStep struct {
	Name           string   `yaml:"name"`
	Preset         string   `yaml:"preset"`
	WavelengthNm   *float64 `yaml:"wavelength_nm"`
	SlitSeparation *float64 `yaml:"slit_separation"`
	SlitWidth      *float64 `yaml:"slit_width"`
	ScreenDistance *float64 `yaml:"screen_distance"`
	ParticleCount  *int     `yaml:"particle_count"`
	FieldScale     *float64 `yaml:"field_scale"`
	Ticks          int      `yaml:"ticks"`
	Seed           *int64   `yaml:"seed"`
	Save           bool     `yaml:"save"`
}

type StepResult struct {
	Step    string
	Outcome *experiment.Outcome
	RunID   string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidConfig, scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the config for step i from base, the scenario preset, the
// step preset and the step overrides, in that order.
func (s *Scenario) Resolve(base *config.Config, i int) (*config.Config, error) {
	step := s.Steps[i]
	cfg := *base

	for _, name := range []string{s.Preset, step.Preset} {
		if name == "" {
			continue
		}
		p, err := config.GetPreset(name)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		run := cfg.Run
		cfg = *p
		cfg.Run = run
	}

	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.Simulation.WavelengthNm, step.WavelengthNm)
	set(&cfg.Simulation.SlitSeparation, step.SlitSeparation)
	set(&cfg.Simulation.SlitWidth, step.SlitWidth)
	set(&cfg.Simulation.ScreenDistance, step.ScreenDistance)
	set(&cfg.Scale.FieldScale, step.FieldScale)
	if step.ParticleCount != nil {
		cfg.Simulation.ParticleCount = *step.ParticleCount
	}
	if step.Ticks > 0 {
		cfg.Run.Ticks = step.Ticks
	}
	if step.Seed != nil {
		cfg.Run.Seed = *step.Seed
	}
	return &cfg, nil
}

func (s *Scenario) stepName(i int) string {
	if n := s.Steps[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("%s_%d", s.Name, i+1)
}

// RunScenario executes all steps in order. Steps marked save are written to
// st, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := scenario.stepName(i)
		slog.Info("scenario_step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := scenario.Resolve(base, i)
		if err != nil {
			return results, err
		}

		exp, err := experiment.New(name, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Step: name, Outcome: out}
		if step.Save {
			if st == nil {
				return results, errors.New("scenario saves runs but no store was given")
			}
			if res.RunID, err = exp.Save(st, out); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep runs the same config across a range of one parameter.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepPoint compares the measured fringe period with theory at one value.
type SweepPoint struct {
	Value      float64
	Spacing    float64
	Period     float64
	Exhaustion float64
	PValue     float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config) ([]SweepPoint, error) {
	probe := base.Simulation
	if _, ok := probe.Param(sweep.Param); !ok {
		return nil, fmt.Errorf("%w: unknown sweep parameter %q", dynamo.ErrInvalidConfig, sweep.Param)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepPoint, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.Min + float64(i)*step
		cfg := *base
		field, _ := cfg.Simulation.Param(sweep.Param)
		*field = value

		exp, err := experiment.New(fmt.Sprintf("sweep_%s_%d", sweep.Param, i), &cfg)
		if err != nil {
			return results, err
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepPoint{
			Value:      value,
			Spacing:    analysis.FringeSpacing(cfg.Simulation, cfg.Scale),
			Period:     out.Period,
			Exhaustion: out.Result.ExhaustionRate(),
			PValue:     out.Fit.PValue,
		})
		slog.Info("sweep_point", "param", sweep.Param, "value", value, "step", i+1, "of", sweep.NumSteps)
	}

	return results, nil
}
