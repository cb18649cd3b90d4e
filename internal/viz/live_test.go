package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg, err := config.GetPreset("visible")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.ParticleCount = 200
	pool := sim.NewPool(cfg.Simulation, cfg.Scale, sim.WithSeed(1))
	return NewModel(cfg, pool, "test")
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.pool.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", m.pool.Tick())
	}

	m = press(m, " ")
	if m.Config().IsPlaying {
		t.Fatal("space should pause")
	}
	before := m.pool.Particles()
	for i := 0; i < 5; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.pool.Tick() != 1 {
		t.Errorf("paused pool advanced to tick %d", m.pool.Tick())
	}
	after := m.pool.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d moved while paused", i)
		}
	}
}

func TestModelSliders(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "up")
	if got := m.Config().WavelengthNm; got != 510 {
		t.Errorf("wavelength = %f, want 510", got)
	}

	for i := 0; i < 100; i++ {
		m = press(m, "up")
	}
	if got := m.Config().WavelengthNm; got != 750 {
		t.Errorf("wavelength clamped to %f, want 750", got)
	}

	m = press(m, "tab")
	m = press(m, "down")
	if got := m.Config().SlitSeparation; got < 1.399 || got > 1.401 {
		t.Errorf("separation = %f, want 1.4", got)
	}

	m = press(m, "tab")
	for i := 0; i < 100; i++ {
		m = press(m, "down")
	}
	if got := m.Config().SlitWidth; got != 0.1 {
		t.Errorf("width clamped to %f, want 0.1", got)
	}

	m = press(m, "tab")
	for i := 0; i < 100; i++ {
		m = press(m, "down")
	}
	if got := m.Config().ScreenDistance; got != 10 {
		t.Errorf("distance clamped to %f, want 10", got)
	}

	m = press(m, "r")
	want := dynamo.DefaultSimulationConfig()
	want.ParticleCount = 200
	if m.Config() != want {
		t.Errorf("reset config = %+v", m.Config())
	}
}

func TestModelViewToggle(t *testing.T) {
	m := newTestModel(t)
	if m.View3D() != TopDown {
		t.Fatal("expected top-down view first")
	}
	m = press(m, "v")
	if m.View3D() != Perspective {
		t.Error("v should switch to perspective")
	}
	m = press(m, "v")
	if m.View3D() != TopDown {
		t.Error("v should switch back")
	}
}

func TestModelCollectsLandings(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "+")
	m = press(m, "+")
	for i := 0; i < 150; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.Landed() == 0 {
		t.Fatal("expected landings after 450 ticks")
	}
	if !strings.Contains(m.View(), "landings") {
		t.Error("view should include the landing histogram")
	}

	m = press(m, "c")
	if m.Landed() != 0 {
		t.Error("c should clear the histogram")
	}
}

func TestModelViewRenders(t *testing.T) {
	m := newTestModel(t)
	for _, key := range []string{"", "v"} {
		if key != "" {
			m = press(m, key)
		}
		out := m.View()
		if !strings.Contains(out, "PARAMETERS") {
			t.Errorf("%s view missing parameter panel", m.View3D())
		}
		if m.canvas.Lit() == 0 {
			t.Errorf("%s view drew nothing", m.View3D())
		}
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme("lab")
	seen := map[string]bool{}
	for range Themes {
		seen[CurrentTheme.Name] = true
		NextTheme()
	}
	if len(seen) != len(Themes) {
		t.Errorf("cycled through %d themes, want %d", len(seen), len(Themes))
	}
	if CurrentTheme.Name != "lab" {
		t.Errorf("theme after full cycle = %s", CurrentTheme.Name)
	}
}
