package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/storage"
)

const scenarioYAML = `name: colors
description: red then violet
preset: visible
steps:
  - name: red
    wavelength_nm: 700
    particle_count: 200
    ticks: 400
    save: true
  - preset: wide
    particle_count: 150
    seed: 9
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "colors" || len(sc.Steps) != 2 {
		t.Fatalf("scenario = %+v", sc)
	}
	if sc.Steps[0].WavelengthNm == nil || *sc.Steps[0].WavelengthNm != 700 {
		t.Error("wavelength override not parsed")
	}
	if sc.Steps[1].WavelengthNm != nil {
		t.Error("absent override should stay nil")
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestResolve(t *testing.T) {
	sc, _ := LoadScenario(writeScenario(t, scenarioYAML))
	base := config.DefaultConfig()
	base.Run.Seed = 4

	first, err := sc.Resolve(base, 0)
	if err != nil {
		t.Fatal(err)
	}
	if first.Scale.FieldScale != 1 {
		t.Errorf("scenario preset not applied: field scale %f", first.Scale.FieldScale)
	}
	if first.Simulation.WavelengthNm != 700 || first.Simulation.ParticleCount != 200 {
		t.Errorf("overrides not applied: %+v", first.Simulation)
	}
	if first.Run.Ticks != 400 || first.Run.Seed != 4 {
		t.Errorf("run = %+v", first.Run)
	}

	second, _ := sc.Resolve(base, 1)
	if second.Simulation.SlitSeparation != 3.0 || second.Run.Seed != 9 {
		t.Errorf("step preset not applied: %+v %+v", second.Simulation, second.Run)
	}
	if base.Simulation.WavelengthNm != 500 {
		t.Error("resolve must not modify the base config")
	}

	sc.Steps[1].Preset = "nope"
	if _, err := sc.Resolve(base, 1); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, _ := LoadScenario(writeScenario(t, scenarioYAML))
	st := storage.New(t.TempDir())
	st.Init()

	base := config.DefaultConfig()
	base.Run.Backend = "serial"
	base.Run.Ticks = 300

	results, err := RunScenario(context.Background(), sc, base, st)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Step != "red" || results[0].RunID == "" {
		t.Errorf("first step = %+v", results[0])
	}
	if results[1].Step != "colors_2" || results[1].RunID != "" {
		t.Errorf("second step = %+v", results[1])
	}
	if results[1].Outcome.Result.Ticks != 300 {
		t.Errorf("second step ticks = %d", results[1].Outcome.Result.Ticks)
	}

	runs, _ := st.List()
	if len(runs) != 1 {
		t.Errorf("expected 1 saved run, got %d", len(runs))
	}
}

func TestRunScenario_SaveWithoutStore(t *testing.T) {
	sc, _ := LoadScenario(writeScenario(t, scenarioYAML))
	base := config.DefaultConfig()
	base.Run.Ticks = 10
	if _, err := RunScenario(context.Background(), sc, base, nil); err == nil {
		t.Error("expected error when saving without a store")
	}
}

func TestRunSweep(t *testing.T) {
	base, _ := config.GetPreset("visible")
	base.Simulation.ParticleCount = 100
	base.Run.Ticks = 300
	base.Run.Backend = "serial"

	points, err := RunSweep(context.Background(), &ParameterSweep{Param: "wavelength", Min: 400, Max: 700, NumSteps: 3}, base)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[1].Value != 550 {
		t.Errorf("middle value = %f, want 550", points[1].Value)
	}
	if !(points[0].Spacing < points[1].Spacing && points[1].Spacing < points[2].Spacing) {
		t.Error("fringe spacing should grow with wavelength")
	}
}

func TestRunSweep_UnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{Param: "mass", NumSteps: 2}, config.DefaultConfig())
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
