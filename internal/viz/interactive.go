package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/sim"
)

const (
	stateMenu = iota
	stateSim
)

// PoolFactory builds the pool for a chosen preset.
type PoolFactory func(c *config.Config) *sim.Pool

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state, cursor int
	presets       []string
	newPool       PoolFactory
	width, height int
	live          Model
	err           error
}

func NewInteractiveApp(newPool PoolFactory) *picker {
	return &picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		newPool: newPool,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if m.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg, err := config.GetPreset(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(cfg, m.newPool(cfg), name)
	if m.width > 0 {
		m.live.resize(m.width, m.height)
	}
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	th := CurrentTheme
	var b strings.Builder
	b.WriteString("\n\n    " + fg(th.Title).Bold(true).Render("SLITSIM") + "\n    " +
		fg(th.Muted).Render("double-slit particle engine") + "\n    " +
		fg(th.Muted).Render("─────────────────────────") + "\n\n")

	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				fg(th.Title).Bold(true).Render("▸"),
				fg(th.Text).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				fg(th.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				fg(th.Muted).Render(fmt.Sprintf("  %-12s", name)),
				fg(th.Border).Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + fg(th.Warning).Render(m.err.Error()) + "\n")
	}

	key := lipgloss.NewStyle().Foreground(th.Title).Bold(true)
	hint := fg(th.Muted)
	b.WriteString("\n    " + key.Render("j/k") + hint.Render(" navigate  ") +
		key.Render("enter") + hint.Render(" start  ") +
		key.Render("esc") + hint.Render(" back  ") +
		key.Render("q") + hint.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(newPool PoolFactory) error {
	_, err := tea.NewProgram(NewInteractiveApp(newPool), tea.WithAltScreen()).Run()
	return err
}
