package export

import (
	"strings"
	"testing"

	"github.com/san-kum/slitsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("nil canvas should produce empty output")
	}

	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("output is not a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("size should be pixels times scale")
	}
}

func TestPatternSVG(t *testing.T) {
	profile := []float64{0, 0.5, 1, 0.5, 0}
	hits := []float64{-1, 0, 1, 50}
	svg := PatternSVG(profile, hits, -10, 10, 200, 100, "#ff0000")

	if n := strings.Count(svg, "<rect x="); n != 3 {
		t.Errorf("expected 3 landing marks, got %d", n)
	}
	if !strings.Contains(svg, "M0.0,75.0") {
		t.Error("curve should start at the bottom of the plot area")
	}
	if !strings.Contains(svg, "L100.0,2.0") {
		t.Error("peak should reach the top of the plot area")
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke color missing")
	}
}

func TestPatternSVG_Degenerate(t *testing.T) {
	if PatternSVG([]float64{1}, nil, -1, 1, 10, 10, "#fff") != "" {
		t.Error("single sample profile should produce nothing")
	}
	if PatternSVG([]float64{1, 2}, nil, 1, 1, 10, 10, "#fff") != "" {
		t.Error("empty range should produce nothing")
	}
}
