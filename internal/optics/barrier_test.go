package optics

import (
	"image/color"
	"math"
	"testing"

	"github.com/san-kum/slitsim/internal/dynamo"
)

func TestLayout(t *testing.T) {
	sc := dynamo.DefaultScale()
	cfg := dynamo.DefaultSimulationConfig()

	b := Layout(cfg, sc)
	if !b.CenterVisible {
		t.Fatal("center post should be visible")
	}
	if math.Abs(b.Center.Width()-(cfg.SlitSeparation-cfg.SlitWidth)) > 1e-12 {
		t.Errorf("center width = %v, want %v", b.Center.Width(), cfg.SlitSeparation-cfg.SlitWidth)
	}
	if b.Left.MaxX != -0.9 || b.Right.MinX != 0.9 {
		t.Errorf("wing inner edges = %v, %v, want -0.9, 0.9", b.Left.MaxX, b.Right.MinX)
	}
	if b.Left.MinX != -10 || b.Right.MaxX != 10 {
		t.Errorf("wing outer edges = %v, %v", b.Left.MinX, b.Right.MaxX)
	}
	if b.Z != sc.WallZ {
		t.Errorf("Z = %v, want %v", b.Z, sc.WallZ)
	}
}

func TestLayout_Degenerate(t *testing.T) {
	sc := dynamo.DefaultScale()
	cfg := dynamo.DefaultSimulationConfig()
	cfg.SlitWidth = 2.0

	b := Layout(cfg, sc)
	if b.CenterVisible {
		t.Error("center post should be suppressed when slits overlap")
	}
	if b.Left.Width() < 0 || b.Right.Width() < 0 {
		t.Error("wings must not have negative width")
	}
}

func TestSlitCenters(t *testing.T) {
	l, r := SlitCenters(dynamo.DefaultSimulationConfig())
	if l != -0.75 || r != 0.75 {
		t.Errorf("SlitCenters = %v, %v", l, r)
	}
}

func TestWavelengthRGB(t *testing.T) {
	tests := []struct {
		nm   float64
		want color.RGBA
	}{
		{380, color.RGBA{255, 0, 255, 255}},
		{440, color.RGBA{0, 0, 255, 255}},
		{490, color.RGBA{0, 255, 255, 255}},
		{510, color.RGBA{0, 255, 0, 255}},
		{580, color.RGBA{255, 255, 0, 255}},
		{700, color.RGBA{255, 0, 0, 255}},
		{300, color.RGBA{0, 0, 0, 255}},
		{900, color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		if got := WavelengthRGB(tt.nm); got != tt.want {
			t.Errorf("WavelengthRGB(%v) = %v, want %v", tt.nm, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0, 255, 16, 255}); got != "#00ff10" {
		t.Errorf("Hex = %q", got)
	}
}
