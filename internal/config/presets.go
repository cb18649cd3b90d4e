package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/slitsim/internal/dynamo"
)

type Preset struct {
	Description string
	Config      *Config
}

func preset(desc string, mutate func(c *Config)) Preset {
	c := DefaultConfig()
	mutate(c)
	return Preset{Description: desc, Config: c}
}

// visible widens the field so the fringes span the screen.
func visible(c *Config) { c.Scale.FieldScale = 1 }

var Presets = map[string]Preset{
	"classic": preset("default scene with the narrow scaled pattern", func(c *Config) {}),
	"visible": preset("unit field scale, fringes across the whole screen", visible),
	"red": preset("700nm light, wider fringes", func(c *Config) {
		visible(c)
		c.Simulation.WavelengthNm = 700
	}),
	"violet": preset("400nm light, tighter fringes", func(c *Config) {
		visible(c)
		c.Simulation.WavelengthNm = 400
	}),
	"wide": preset("slits 3 apart, many close fringes", func(c *Config) {
		visible(c)
		c.Simulation.SlitSeparation = 3.0
	}),
	"fine": preset("narrow slits, broad diffraction envelope", func(c *Config) {
		visible(c)
		c.Simulation.SlitWidth = 0.1
	}),
	"far": preset("distant screen, magnified pattern", func(c *Config) {
		visible(c)
		c.Simulation.ScreenDistance = 30
	}),
	"dense": preset("10000 particles", func(c *Config) {
		visible(c)
		c.Simulation.ParticleCount = 10000
	}),
	"degenerate": preset("slit width exceeds separation", func(c *Config) {
		visible(c)
		c.Simulation.SlitSeparation = 0.8
		c.Simulation.SlitWidth = 1.0
	}),
}

// GetPreset returns a copy of the named preset's config.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	cfg := *p.Config
	return &cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
