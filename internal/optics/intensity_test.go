package optics

import (
	"math"
	"testing"

	"github.com/san-kum/slitsim/internal/dynamo"
)

func TestIntensity_CentralMaximum(t *testing.T) {
	cfg := dynamo.SimulationConfig{WavelengthNm: 500, SlitSeparation: 1.5, SlitWidth: 0.3, ScreenDistance: 15}
	got := Intensity(0, cfg, dynamo.DefaultScale())
	if got != 1.0 {
		t.Errorf("Intensity(0) = %v, want 1.0", got)
	}
}

func TestIntensity_Symmetry(t *testing.T) {
	sc := dynamo.DefaultScale()
	configs := []dynamo.SimulationConfig{
		dynamo.DefaultSimulationConfig(),
		{WavelengthNm: 380, SlitSeparation: 0.5, SlitWidth: 0.1, ScreenDistance: 5},
		{WavelengthNm: 750, SlitSeparation: 3.0, SlitWidth: 1.0, ScreenDistance: 30},
		{WavelengthNm: 620, SlitSeparation: 0.4, SlitWidth: 0.8, ScreenDistance: 12},
	}

	for _, cfg := range configs {
		for x := 0.0; x <= 10; x += 0.0137 {
			if a, b := Intensity(x, cfg, sc), Intensity(-x, cfg, sc); a != b {
				t.Fatalf("cfg %+v: I(%v)=%v but I(%v)=%v", cfg, x, a, -x, b)
			}
		}
	}
}

func TestIntensity_Bounded(t *testing.T) {
	sc := dynamo.DefaultScale()
	for nm := 380.0; nm <= 780; nm += 40 {
		for d := 0.5; d <= 3.0; d += 0.5 {
			cfg := dynamo.SimulationConfig{WavelengthNm: nm, SlitSeparation: d, SlitWidth: 0.3, ScreenDistance: 15}
			for x := -10.0; x <= 10; x += 0.01 {
				i := Intensity(x, cfg, sc)
				if i < 0 || i > 1 || math.IsNaN(i) {
					t.Fatalf("Intensity(%v) = %v out of [0,1] for %+v", x, i, cfg)
				}
			}
		}
	}
}

func TestIntensity_ZeroGuard(t *testing.T) {
	sc := dynamo.DefaultScale()
	tests := []struct {
		name string
		cfg  dynamo.SimulationConfig
	}{
		{"zero distance", dynamo.SimulationConfig{WavelengthNm: 500, SlitSeparation: 1.5, SlitWidth: 0.3, ScreenDistance: 0}},
		{"tiny distance", dynamo.SimulationConfig{WavelengthNm: 500, SlitSeparation: 1.5, SlitWidth: 0.3, ScreenDistance: 1e-12}},
		{"zero wavelength", dynamo.SimulationConfig{WavelengthNm: 0, SlitSeparation: 1.5, SlitWidth: 0.3, ScreenDistance: 15}},
		{"infinite distance", dynamo.SimulationConfig{WavelengthNm: 500, SlitSeparation: 1.5, SlitWidth: 0.3, ScreenDistance: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range []float64{-10, -1, -1e-6, 0, 1e-6, 1, 10} {
				if got := Intensity(x, tt.cfg, sc); got != 0 {
					t.Errorf("Intensity(%v) = %v, want 0", x, got)
				}
			}
		})
	}
}

func TestIntensity_NonFiniteX(t *testing.T) {
	cfg := dynamo.DefaultSimulationConfig()
	sc := dynamo.DefaultScale()
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Intensity(x, cfg, sc); got != 0 {
			t.Errorf("Intensity(%v) = %v, want 0", x, got)
		}
	}
}

func TestIntensity_FirstInterferenceMinimum(t *testing.T) {
	cfg := dynamo.DefaultSimulationConfig()
	sc := dynamo.DefaultScale()
	// α = π/2 at x = λL / (2·d·S)
	lambda := cfg.WavelengthNm * sc.WavelengthUnit
	x := lambda * cfg.ScreenDistance / (2 * cfg.SlitSeparation * sc.FieldScale)
	if got := Intensity(x, cfg, sc); got > 1e-12 {
		t.Errorf("Intensity at first minimum = %v, want ~0", got)
	}
}

func TestEvaluator_MatchesIntensity(t *testing.T) {
	cfg := dynamo.DefaultSimulationConfig()
	sc := dynamo.DefaultScale()
	ev := NewEvaluator(cfg, sc)
	for _, x := range []float64{-0.03, 0, 0.004, 0.02} {
		if ev.At(x) != Intensity(x, cfg, sc) {
			t.Errorf("Evaluator.At(%v) differs from Intensity", x)
		}
	}
}
