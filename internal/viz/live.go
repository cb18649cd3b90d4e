package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/sim"
)

const (
	width            = 80
	height           = 24
	historyCapacity  = 120
	maxTicksPerFrame = 20
)

type ViewMode int

const (
	TopDown ViewMode = iota
	Perspective
)

func (v ViewMode) String() string {
	if v == Perspective {
		return "perspective"
	}
	return "top-down"
}

type TickMsg time.Time

type slider struct {
	name           string
	unit           string
	min, max, step float64
	field          func(c *dynamo.SimulationConfig) *float64
}

var sliders = []slider{
	{"wavelength", "nm", 380, 750, 10, func(c *dynamo.SimulationConfig) *float64 { return &c.WavelengthNm }},
	{"separation", "", 0.5, 3.0, 0.1, func(c *dynamo.SimulationConfig) *float64 { return &c.SlitSeparation }},
	{"slit width", "", 0.1, 1.0, 0.05, func(c *dynamo.SimulationConfig) *float64 { return &c.SlitWidth }},
	{"distance", "", 10, 30, 1, func(c *dynamo.SimulationConfig) *float64 { return &c.ScreenDistance }},
}

// liveStats accumulates pool reports between frames.
type liveStats struct {
	bins       []float64
	landed     int
	frameHits  int
	throughput []float64
	exhaustion *metrics.Exhaustion
	occupancy  *metrics.Occupancy
}

func newLiveStats(bins int) *liveStats {
	return &liveStats{
		bins:       make([]float64, max(bins, 1)),
		throughput: make([]float64, 0, historyCapacity),
		exhaustion: metrics.NewExhaustion(),
		occupancy:  metrics.NewOccupancy(),
	}
}

func (s *liveStats) bind(half float64) sim.Observer {
	return sim.ObserverFunc(func(r sim.TickReport) {
		s.exhaustion.Observe(r)
		s.occupancy.Observe(r)
		n := len(s.bins)
		for _, h := range r.Hits {
			i := int((h.X + half) / (2 * half) * float64(n))
			if i < 0 || i >= n {
				continue
			}
			s.bins[i]++
		}
		s.landed += r.Landed
		s.frameHits += r.Landed
	})
}

func (s *liveStats) endFrame() {
	s.throughput = append(s.throughput, float64(s.frameHits))
	if len(s.throughput) > historyCapacity {
		s.throughput = s.throughput[1:]
	}
	s.frameHits = 0
}

func (s *liveStats) clear() {
	clear(s.bins)
	s.landed = 0
	s.frameHits = 0
	s.throughput = s.throughput[:0]
	s.exhaustion.Reset()
	s.occupancy.Reset()
}

// Model drives a particle pool from the Bubble Tea frame loop.
type Model struct {
	cfg           dynamo.SimulationConfig
	initial       dynamo.SimulationConfig
	sc            dynamo.Scale
	pool          *sim.Pool
	stats         *liveStats
	ticksPerFrame int
	fps           int
	width, height int
	canvas        *Canvas
	camera        *Camera
	view          ViewMode
	selected      int
	frame         int
	title         string
	showHelp      bool
}

// NewModel builds a live view over pool. The pool is observed for the
// landing histogram; it must not be advanced elsewhere while the view runs.
func NewModel(c *config.Config, pool *sim.Pool, title string) Model {
	fps := c.Run.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	bins := c.Run.Bins
	if bins <= 0 {
		bins = config.DefaultBins
	}

	stats := newLiveStats(bins)
	pool.AddObserver(stats.bind(c.Scale.HalfWidth()))

	return Model{
		cfg:           c.Simulation,
		initial:       c.Simulation,
		sc:            c.Scale,
		pool:          pool,
		stats:         stats,
		ticksPerFrame: 1,
		fps:           fps,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(c.Simulation, c.Scale),
		title:         title,
	}
}

func (m Model) Config() dynamo.SimulationConfig { return m.cfg }
func (m Model) View3D() ViewMode                { return m.view }
func (m Model) Landed() int                     { return m.stats.landed }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.cfg.IsPlaying = !m.cfg.IsPlaying
		case "r":
			m.reset()
		case "v":
			m.view = 1 - m.view
		case "t":
			NextTheme()
		case "c":
			m.stats.clear()
		case "tab":
			m.selected = (m.selected + 1) % len(sliders)
		case "shift+tab":
			m.selected = (m.selected + len(sliders) - 1) % len(sliders)
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "+", "=":
			m.ticksPerFrame = min(m.ticksPerFrame+1, maxTicksPerFrame)
		case "-", "_":
			m.ticksPerFrame = max(m.ticksPerFrame-1, 1)
		case "[":
			m.camera.RotateY(-0.1)
		case "]":
			m.camera.RotateY(0.1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.pool.Advance(m.cfg, m.ticksPerFrame)
		if m.cfg.IsPlaying {
			m.stats.endFrame()
		}
		m.frame++
		return m, m.tick()
	}
	return m, nil
}

// adjust moves the selected slider dir steps, snapping to its grid. The
// histogram belongs to the old geometry and is cleared.
func (m *Model) adjust(dir int) {
	s := sliders[m.selected]
	p := s.field(&m.cfg)
	v := *p + float64(dir)*s.step
	v = math.Max(s.min, math.Min(s.max, v))
	v = s.min + math.Round((v-s.min)/s.step)*s.step
	if v == *p {
		return
	}
	*p = v
	m.stats.clear()
	if s.name == "distance" {
		m.camera = NewCamera(m.cfg, m.sc)
	}
}

// reset restores the starting parameters and respawns every particle.
func (m *Model) reset() {
	playing := m.cfg.IsPlaying
	m.cfg = m.initial
	m.cfg.IsPlaying = playing
	m.pool.Reset()
	m.stats.clear()
	m.camera = NewCamera(m.cfg, m.sc)
}

func (m *Model) resize(w, h int) {
	cw := max(w-52, 20)
	ch := max(h-16, 8)
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.view == Perspective {
		m.drawPerspective()
	} else {
		m.drawTopDown()
	}
}

// drawTopDown looks down the y axis: depth runs left to right, x bottom to top.
// The field profile is plotted sideways behind the screen line.
func (m *Model) drawTopDown() {
	screenZ := m.sc.ScreenZ(m.cfg)
	half := m.sc.HalfWidth()
	profileDepth := 3.0
	vp := Viewport{
		MinU: m.sc.SourceZ - m.sc.SpawnDepth,
		MaxU: screenZ + profileDepth + 0.5,
		MinV: -half - 0.5,
		MaxV: half + 0.5,
	}

	b := optics.Layout(m.cfg, m.sc)
	vis := func(s optics.Segment) optics.Segment {
		return optics.Segment{MinX: math.Max(s.MinX, -half), MaxX: math.Min(s.MaxX, half)}
	}
	for _, s := range []optics.Segment{vis(b.Left), vis(b.Right)} {
		m.canvas.Segment(vp, b.Z, s.MinX, b.Z, s.MaxX)
	}
	if b.CenterVisible {
		m.canvas.Segment(vp, b.Z, b.Center.MinX, b.Z, b.Center.MaxX)
	}

	m.canvas.Segment(vp, screenZ, -half, screenZ, half)
	_, ph := m.canvas.Pixels()
	profile := optics.Profile(m.cfg, m.sc, ph)
	for i, v := range profile {
		x := -half + (float64(i)+0.5)*m.sc.ScreenWidth/float64(len(profile))
		if v > 0.02 {
			m.canvas.Segment(vp, screenZ, x, screenZ+v*profileDepth, x)
		}
	}

	for _, p := range m.pool.Snapshot().Positions {
		if p.Z < vp.MinU || p.Z > screenZ {
			continue
		}
		m.canvas.Plot(vp, p.Z, p.X)
	}
}

func (m *Model) drawPerspective() {
	pw, ph := m.canvas.Pixels()
	Render3D(m.canvas, SceneWireframe(m.cfg, m.sc), m.camera)
	for _, p := range m.pool.Snapshot().Positions {
		if x, y, _, ok := m.camera.Project(p, pw, ph); ok {
			m.canvas.Set(x, y)
		}
	}
}

func (m Model) View() string {
	m.draw()
	th := CurrentTheme
	particle := lipgloss.Color(optics.Hex(optics.WavelengthRGB(m.cfg.WavelengthNm)))
	if !m.cfg.Visible() {
		particle = th.Text
	}
	canvasView := canvasStyle.Foreground(particle).Render(m.canvas.String())

	label := labelStyle.Foreground(th.Muted)
	value := fg(th.Text)

	var s strings.Builder
	title := m.title
	if title == "" {
		title = "double slit"
	}
	s.WriteString(GradientText(strings.ToUpper(title), th.Title, particle) + "\n\n")

	status := fg(th.Good).Bold(true).Render(AnimatedSpinner(m.frame) + " PLAYING")
	if !m.cfg.IsPlaying {
		status = fg(th.Warning).Bold(true).Render("PAUSED")
	}
	s.WriteString(status + "  " + fg(th.Muted).Render(m.view.String()) + "\n\n")

	s.WriteString(label.Render("Tick") + value.Render(fmt.Sprintf("%d  x%d", m.pool.Tick(), m.ticksPerFrame)) + "\n")
	s.WriteString(label.Render("Particles") + value.Render(fmt.Sprintf("%d", m.pool.Len())) + "\n")
	s.WriteString(label.Render("Landed") + value.Render(fmt.Sprintf("%d", m.stats.landed)) + "\n")
	s.WriteString(label.Render("Backend") + value.Render(m.pool.Backend().Name()) + "\n")
	s.WriteString(label.Render("Fringe") + value.Render(fmt.Sprintf("%.4g", analysis.FringeSpacing(m.cfg, m.sc))) + "\n")
	s.WriteString(label.Render("In flight") + ProgressBar(m.stats.occupancy.Value(), 20, 1.1) + "\n")
	s.WriteString(label.Render("Exhausted") + ProgressBar(m.stats.exhaustion.Value(), 20, 0.5) + "\n")
	s.WriteString(label.Render("Rate") + fg(th.Accent).Render(SparklineChart(m.stats.throughput, 20)) + "\n")

	s.WriteString("\n" + fg(th.Title).Render("PARAMETERS") + "\n")
	for i, sl := range sliders {
		v := *sl.field(&m.cfg)
		ratio := (v - sl.min) / (sl.max - sl.min)
		filled := max(0, min(int(ratio*10), 10))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", 10-filled) + "]"
		line := fmt.Sprintf("%-10s %s %.2f%s", sl.name, bar, v, sl.unit)
		if i == m.selected {
			s.WriteString(fg(th.Accent).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + fg(th.Muted).Render(line) + "\n")
		}
	}
	if m.cfg.Degenerate() {
		s.WriteString(fg(th.Warning).Render("  slits overlap") + "\n")
	}

	s.WriteString(fg(th.Muted).Render("\n─────────────────────\nSP:Pause R:Reset V:View Q:Quit\nT:Theme C:Clear +/-:Speed ?:Help\nTab:Select ↑↓:Adjust"))
	statsView := panelStyle().Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.stats.landed > 1 {
		mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, graphStyle.Render(m.histogram()))
	}
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// histogram plots landings against the field profile scaled to the same peak.
func (m Model) histogram() string {
	observed := m.stats.bins
	expected := optics.Profile(m.cfg, m.sc, len(observed))
	peak := 0.0
	for _, v := range observed {
		peak = math.Max(peak, v)
	}
	for i := range expected {
		expected[i] *= peak
	}
	return asciigraph.PlotMany(
		[][]float64{observed, expected},
		asciigraph.Height(6),
		asciigraph.Width(min(m.width*2, 120)),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption("landings (cyan) vs field (yellow)"),
	)
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset particles          ║
║  V        - Top-down / perspective   ║
║  Tab      - Next parameter           ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  + / -    - Ticks per frame          ║
║  [ / ]    - Orbit camera             ║
║  C        - Clear histogram          ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
