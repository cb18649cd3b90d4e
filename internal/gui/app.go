package gui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWall    = rl.NewColor(70, 70, 80, 255)
)

const (
	screenW     = 1280
	screenH     = 720
	panelX      = 980
	screenBins  = 200
	telemetryN  = 200
	maxLandings = 4000
)

type slider struct {
	label    string
	min, max float32
	field    func(c *dynamo.SimulationConfig) *float64
}

var sliders = []slider{
	{"wavelength (nm)", 380, 750, func(c *dynamo.SimulationConfig) *float64 { return &c.WavelengthNm }},
	{"slit separation", 0.5, 3, func(c *dynamo.SimulationConfig) *float64 { return &c.SlitSeparation }},
	{"slit width", 0.1, 1, func(c *dynamo.SimulationConfig) *float64 { return &c.SlitWidth }},
	{"screen distance", 10, 30, func(c *dynamo.SimulationConfig) *float64 { return &c.ScreenDistance }},
}

type App struct {
	Config  dynamo.SimulationConfig
	Scale   dynamo.Scale
	Pool    *sim.Pool
	Camera  rl.Camera3D
	Font    rl.Font
	Running bool
	TopDown bool

	CamPosTarget rl.Vector3
	CamTgtTarget rl.Vector3

	initial    dynamo.SimulationConfig
	landings   []sim.Hit
	bins       []float64
	telemetry  []float64
	frameHits  int
	exhaustion *metrics.Exhaustion
	fps        int
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "slitsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp binds the app to a pool. The window must already be open.
func NewApp(c *config.Config, pool *sim.Pool) *App {
	a := &App{
		Config:     c.Simulation,
		Scale:      c.Scale,
		Pool:       pool,
		Font:       loadFont(),
		Running:    c.Simulation.IsPlaying,
		initial:    c.Simulation,
		landings:   make([]sim.Hit, 0, maxLandings),
		bins:       make([]float64, screenBins),
		telemetry:  make([]float64, 0, telemetryN),
		exhaustion: metrics.NewExhaustion(),
		fps:        c.Run.FPS,
	}
	pool.AddObserver(sim.ObserverFunc(a.observe))
	a.resetCamera()
	a.Camera.Position = a.CamPosTarget
	a.Camera.Target = a.CamTgtTarget
	return a
}

// Run opens a window and blocks until it is closed.
func Run(c *config.Config, pool *sim.Pool) {
	initWindow()
	defer rl.CloseWindow()
	if c.Run.FPS > 0 {
		rl.SetTargetFPS(int32(c.Run.FPS))
	}
	app := NewApp(c, pool)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) observe(r sim.TickReport) {
	a.exhaustion.Observe(r)
	half := a.Scale.HalfWidth()
	for _, h := range r.Hits {
		if len(a.landings) == maxLandings {
			copy(a.landings, a.landings[1:])
			a.landings = a.landings[:maxLandings-1]
		}
		a.landings = append(a.landings, h)
		i := int((h.X + half) / (2 * half) * screenBins)
		if i >= 0 && i < screenBins {
			a.bins[i]++
		}
	}
	a.frameHits += r.Landed
}

// resetCamera points the camera targets at the middle of the apparatus. The
// camera itself lerps toward them in Update.
func (a *App) resetCamera() {
	mid := float32((a.Scale.SourceZ + a.Scale.ScreenZ(a.Config)) / 2)
	a.CamTgtTarget = rl.NewVector3(0, 0, mid)
	if a.TopDown {
		a.CamPosTarget = rl.NewVector3(0, 30, mid-0.01)
	} else {
		a.CamPosTarget = rl.NewVector3(18, 12, mid-14)
	}
	a.Camera.Up = rl.NewVector3(0, 1, 0)
	a.Camera.Fovy = 45
	a.Camera.Projection = rl.CameraPerspective
}

func (a *App) clearStats() {
	a.landings = a.landings[:0]
	clear(a.bins)
	a.telemetry = a.telemetry[:0]
	a.frameHits = 0
	a.exhaustion.Reset()
}

func (a *App) reset() {
	a.Config = a.initial
	a.Config.IsPlaying = a.Running
	a.Pool.Reset()
	a.clearStats()
	a.resetCamera()
}

// Update handles input and advances the pool one tick. It reports whether
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.clearStats()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.TopDown = !a.TopDown
		a.resetCamera()
	}

	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.3
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.3
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget.X -= 0.3
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget.X += 0.3
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.CamPosTarget.X -= delta.X * 0.05
		a.CamPosTarget.Y += delta.Y * 0.05
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		zoom := wheel * 1.5
		diff := rl.Vector3Subtract(a.CamTgtTarget, a.CamPosTarget)
		if rl.Vector3Length(diff) > 3 || zoom < 0 {
			dir := rl.Vector3Normalize(diff)
			a.CamPosTarget = rl.Vector3Add(a.CamPosTarget, rl.Vector3Scale(dir, zoom))
		}
	}

	lerp := min(5*rl.GetFrameTime(), 1)
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, a.CamTgtTarget, lerp)

	a.Config.IsPlaying = a.Running
	a.Pool.Advance(a.Config, 1)
	if a.Running {
		a.telemetry = append(a.telemetry, float64(a.frameHits))
		if len(a.telemetry) > telemetryN {
			a.telemetry = a.telemetry[1:]
		}
	}
	a.frameHits = 0
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawScene()
	rl.EndMode3D()

	a.drawHUD()
	a.drawPanel()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	a.drawText("slitsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %.0fnm  d=%.2f  a=%.2f  L=%.0f",
		a.Config.WavelengthNm, a.Config.SlitSeparation, a.Config.SlitWidth, a.Config.ScreenDistance), 150, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, panelX-120, 30, 16, col)

	a.drawText(fmt.Sprintf("tick %d  particles %d  landed %d  fallback %.0f%%",
		a.Pool.Tick(), a.Pool.Len(), len(a.landings), a.exhaustion.Value()*100), 30, 620, 14, ColText)
	a.drawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [C] CLEAR  [V] VIEW  [WASD] CAMERA  [Q] QUIT", 30, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), panelX-120, 690, 14, ColTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}
	peak := 1.0
	for _, v := range a.telemetry {
		peak = max(peak, v)
	}

	x0, y0 := float32(30), float32(600)
	w, h := float32(400), float32(60)
	points := make([]rl.Vector2, len(a.telemetry))
	for i, v := range a.telemetry {
		px := x0 + float32(i)/float32(telemetryN-1)*w
		py := y0 - float32(v/peak)*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
}

// drawPanel renders the raygui controls and applies their changes to the
// live config.
func (a *App) drawPanel() {
	x, y := float32(panelX), float32(80)
	width := float32(screenW - panelX - 90)

	for _, s := range sliders {
		v := s.field(&a.Config)
		a.drawText(s.label, int(x), int(y), 14, ColText)
		y += 18
		next := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: width, Height: 20}, "", "", float32(*v), s.min, s.max)
		a.drawText(fmt.Sprintf("%.2f", *v), int(x+width+10), int(y+2), 14, ColAccent)
		if float64(next) != *v {
			*v = float64(next)
		}
		y += 36
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 90, Height: 30}, toggleText(a.Running, "Pause", "Play")) {
		a.Running = !a.Running
	}
	if gui.Button(rl.Rectangle{X: x + 100, Y: y, Width: 90, Height: 30}, "Reset") {
		a.reset()
	}
	y += 40
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 190, Height: 30}, "Clear screen") {
		a.clearStats()
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
