package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sampler"
)

const (
	DefaultTicks = 2000
	DefaultFPS   = 60
	DefaultBins  = 64
)

type Config struct {
	Simulation dynamo.SimulationConfig `yaml:"simulation"`
	Scale      dynamo.Scale            `yaml:"scale"`
	Run        RunConfig               `yaml:"run"`
}

type RunConfig struct {
	Ticks       int    `yaml:"ticks"`
	Seed        int64  `yaml:"seed"`
	MaxAttempts int    `yaml:"max_attempts"`
	Parallel    bool   `yaml:"parallel"`
	Backend     string `yaml:"backend"`
	FPS         int    `yaml:"fps"`
	Bins        int    `yaml:"bins"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: dynamo.DefaultSimulationConfig(),
		Scale:      dynamo.DefaultScale(),
		Run: RunConfig{
			Ticks:       DefaultTicks,
			MaxAttempts: sampler.DefaultMaxAttempts,
			Backend:     "auto",
			FPS:         DefaultFPS,
			Bins:        DefaultBins,
		},
	}
}

// Load reads a YAML config. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no run can use. Geometry the engine tolerates,
// such as overlapping slits, is reported by Warnings instead.
func (c *Config) Validate() error {
	var errs []error
	check := func(field string, v float64, ok bool, reason string) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, &dynamo.ConfigError{Field: field, Value: v, Reason: "must be finite"})
			return
		}
		if !ok {
			errs = append(errs, &dynamo.ConfigError{Field: field, Value: v, Reason: reason})
		}
	}

	s := c.Simulation
	check("simulation.wavelength_nm", s.WavelengthNm, s.WavelengthNm > 0, "must be positive")
	check("simulation.slit_separation", s.SlitSeparation, s.SlitSeparation >= 0, "must not be negative")
	check("simulation.slit_width", s.SlitWidth, s.SlitWidth >= 0, "must not be negative")
	check("simulation.screen_distance", s.ScreenDistance, s.ScreenDistance > 0, "must be positive")

	sc := c.Scale
	check("scale.wavelength_unit", sc.WavelengthUnit, sc.WavelengthUnit > 0, "must be positive")
	check("scale.field_scale", sc.FieldScale, sc.FieldScale > 0, "must be positive")
	check("scale.screen_width", sc.ScreenWidth, sc.ScreenWidth > 0, "must be positive")
	check("scale.screen_height", sc.ScreenHeight, sc.ScreenHeight >= 0, "must not be negative")
	check("scale.base_speed", sc.BaseSpeed, sc.BaseSpeed > 0, "must be positive")
	check("scale.speed_jitter", sc.SpeedJitter, sc.SpeedJitter >= 0, "must not be negative")
	check("scale.spawn_depth", sc.SpawnDepth, sc.SpawnDepth >= 0, "must not be negative")
	check("scale.recycle_depth", sc.RecycleDepth, sc.RecycleDepth >= 0, "must not be negative")
	check("scale.source_z", sc.SourceZ, sc.SourceZ < sc.WallZ, "source must be in front of the barrier")

	r := c.Run
	check("run.ticks", float64(r.Ticks), r.Ticks >= 0, "must not be negative")
	check("run.max_attempts", float64(r.MaxAttempts), r.MaxAttempts >= 1, "must be at least 1")
	check("run.fps", float64(r.FPS), r.FPS >= 0, "must not be negative")
	check("run.bins", float64(r.Bins), r.Bins >= 0, "must not be negative")

	return errors.Join(errs...)
}

// Warnings lists settings the engine accepts but that produce unusual scenes.
func (c *Config) Warnings() []string {
	var warns []string
	s := c.Simulation
	if !s.Visible() {
		warns = append(warns, fmt.Sprintf("wavelength %gnm is outside the visible range %g-%gnm", s.WavelengthNm, dynamo.MinVisibleNm, dynamo.MaxVisibleNm))
	}
	if s.Degenerate() {
		warns = append(warns, fmt.Sprintf("slit width %g is not smaller than separation %g: slits merge", s.SlitWidth, s.SlitSeparation))
	}
	if c.Scale.ScreenZ(s) <= c.Scale.WallZ {
		warns = append(warns, fmt.Sprintf("screen at z=%g is not behind the barrier at z=%g", c.Scale.ScreenZ(s), c.Scale.WallZ))
	}
	if s.ParticleCount <= 0 {
		warns = append(warns, "particle count is not positive: the pool is empty")
	}
	return warns
}
