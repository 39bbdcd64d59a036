// Package export renders frames and metric series as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

const background = "#0a0a0a"

// FrameToSVG draws every mapped pixel of f as a dot at its position-matrix
// coordinate, column 0 on the left and physical index 0 at the bottom.
// scale is the distance between adjacent pixels in SVG units.
func FrameToSVG(topo *panel.Topology, f anim.Frame, scale float64) string {
	if topo == nil || topo.Width() == 0 {
		return ""
	}

	width := float64(topo.Width()) * scale
	height := (topo.Height() + 1) * scale
	radius := scale * 0.4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for _, col := range topo.Matrix {
		for _, p := range col {
			c := color.Black
			if int(p.Index) < len(f) {
				c = f[p.Index]
			}
			cx := float64(p.Column)*scale + scale/2
			cy := height - p.Y*scale - scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, radius, Hex(c)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Hex returns c as a #rrggbb string. Unlit pixels are drawn in a dim gray
// so the panel layout stays visible.
func Hex(c color.RGB) string {
	if c == color.Black {
		return "#1a1a1a"
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// SeriesToSVG draws one polyline per series over a shared time axis.
// Series shorter than two points are skipped; the result is empty when nothing
// remains to draw.
func SeriesToSVG(series map[string][]float64, names []string, width, height int) string {
	minY, maxY, n := 0.0, 0.0, 0
	first := true
	for _, name := range names {
		ys := series[name]
		if len(ys) < 2 {
			continue
		}
		if len(ys) > n {
			n = len(ys)
		}
		for _, y := range ys {
			if first || y < minY {
				minY = y
			}
			if first || y > maxY {
				maxY = y
			}
			first = false
		}
	}
	if n < 2 {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for i, name := range names {
		ys := series[name]
		if len(ys) < 2 {
			continue
		}
		stroke := colorful.Hsv(float64(i*360/len(names)), 0.8, 1).Hex()
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, name, stroke))
		for j, y := range ys {
			px := float64(j) / float64(n-1) * float64(width)
			py := float64(height) - (y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
