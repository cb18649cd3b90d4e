package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/slitsim/internal/viz"
)

const background = "#0a0a0a"

// braille dot bits, row by row
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.Pixels()
	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", fill))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PatternSVG draws the expected field profile as a curve over the recorded
// landing positions. profile holds evenly spaced samples across [lo, hi];
// hits outside that range are skipped.
func PatternSVG(profile, hits []float64, lo, hi float64, width, height int, stroke string) string {
	if len(profile) < 2 || hi <= lo || width <= 0 || height <= 0 {
		return ""
	}

	peak := 0.0
	for _, v := range profile {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	w, h := float64(width), float64(height)
	// curve occupies the top, landings the bottom strip
	curveH := h * 0.75
	stripTop := curveH + 4

	var sb strings.Builder
	header(&sb, w, h)

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\" fill-opacity=\"0.35\">\n", stroke))
	for _, x := range hits {
		if x < lo || x > hi {
			continue
		}
		px := (x - lo) / (hi - lo) * w
		sb.WriteString(fmt.Sprintf("<rect x=\"%.1f\" y=\"%.1f\" width=\"1\" height=\"%.1f\"/>\n", px, stripTop, h-stripTop))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf("<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", stroke))
	last := float64(len(profile) - 1)
	for i, v := range profile {
		x := float64(i) / last * w
		y := curveH - v/peak*(curveH-2)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
