package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/particle"
)

func vec(x, y, z float64) rl.Vector3 {
	return rl.NewVector3(float32(x), float32(y), float32(z))
}

func (a *App) beamColor() rl.Color {
	c := optics.WavelengthRGB(a.Config.WavelengthNm)
	return rl.NewColor(c.R, c.G, c.B, 255)
}

func (a *App) drawScene() {
	a.drawSource()
	a.drawBarrier()
	a.drawScreen()
	a.drawParticles()
}

func (a *App) drawSource() {
	z := a.Scale.SourceZ
	rl.DrawCubeWires(vec(0, 0, z), float32(2*a.Scale.SourceScatter), float32(2*a.Scale.SourceScatter), 0.1, ColTextDim)
}

func (a *App) drawBarrier() {
	b := optics.Layout(a.Config, a.Scale)
	draw := func(s optics.Segment) {
		if s.Width() <= 0 {
			return
		}
		pos := vec(s.Center(), 0, b.Z)
		rl.DrawCube(pos, float32(s.Width()), float32(b.Height), 0.2, ColWall)
		rl.DrawCubeWires(pos, float32(s.Width()), float32(b.Height), 0.2, ColTextDim)
	}
	draw(b.Left)
	draw(b.Right)
	if b.CenterVisible {
		draw(b.Center)
	}
}

// drawScreen shades the screen by expected intensity and overlays the
// accumulated landings.
func (a *App) drawScreen() {
	z := a.Scale.ScreenZ(a.Config)
	w, h := a.Scale.ScreenWidth, a.Scale.ScreenHeight
	rl.DrawCubeWires(vec(0, 0, z), float32(w), float32(h), 0.05, ColTextDim)

	base := a.beamColor()
	profile := optics.Profile(a.Config, a.Scale, screenBins)
	step := w / screenBins
	for i, v := range profile {
		if v < 0.01 {
			continue
		}
		x := -w/2 + (float64(i)+0.5)*step
		c := rl.ColorAlpha(base, float32(v)*0.25)
		rl.DrawCube(vec(x, 0, z+0.05), float32(step), float32(h), 0.01, c)
	}

	for _, hit := range a.landings {
		rl.DrawCube(vec(hit.X, hit.Y, z-0.02), 0.05, 0.05, 0.02, base)
	}
}

func (a *App) drawParticles() {
	col := a.beamColor()
	for _, p := range a.Pool.Particles() {
		rl.DrawCube(vec(p.Pos.X, p.Pos.Y, p.Pos.Z), 0.08, 0.08, 0.08, phaseColor(p.Phase, col))
	}
}

// phaseColor dims particles that have not reached the slits yet.
func phaseColor(ph particle.Phase, col rl.Color) rl.Color {
	if ph == particle.ApproachingBarrier {
		return rl.ColorAlpha(col, 0.5)
	}
	return col
}
