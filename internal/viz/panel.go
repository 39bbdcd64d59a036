package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

const (
	litGlyph   = "●"
	unlitGlyph = "·"
)

// RenderFrame draws f as a grid with one column per strip and one row per
// pixel of the longest strip. Physical index 0 is the bottom row; shorter
// strips are spread over the full height by their matrix coordinate.
func RenderFrame(topo *panel.Topology, f anim.Frame) string {
	if topo == nil || topo.Width() == 0 {
		return ""
	}
	rows := int(topo.Height()) + 1
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, topo.Width())
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	unlit := lipgloss.NewStyle().Foreground(CurrentTheme.Unlit).Render(unlitGlyph)
	for _, col := range topo.Matrix {
		for _, p := range col {
			r := rows - 1 - int(math.Round(p.Y))
			if int(p.Index) >= len(f) || f[p.Index] == color.Black {
				grid[r][p.Column] = unlit
				continue
			}
			grid[r][p.Column] = lipgloss.NewStyle().Foreground(pixelColor(f[p.Index])).Render(litGlyph)
		}
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

func pixelColor(c color.RGB) lipgloss.Color {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return lipgloss.Color(cc.Hex())
}
