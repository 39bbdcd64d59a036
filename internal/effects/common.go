package effects

import (
	"math"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/panel"
)

func checkPanel(name string, topo *panel.Topology) error {
	if topo == nil || topo.TotalPixels() == 0 || len(topo.MappedIndices()) == 0 {
		return &anim.ParamError{Animation: name, Wrapped: anim.ErrEmptyPanel}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// pickWeighted returns the first index whose cumulative weight exceeds a
// uniform draw in [0,total). A zero total picks index 0.
func pickWeighted(weights []int, src anim.Source) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	s := src.Intn(total)
	cum := 0
	for i, w := range weights {
		cum += w
		if cum > s {
			return i
		}
	}
	return len(weights) - 1
}

// sample returns k distinct elements of from in random order, or all of them
// when k >= len(from).
func sample(from []uint16, k int, src anim.Source) []uint16 {
	out := append([]uint16(nil), from...)
	if k >= len(out) {
		return out
	}
	for i := 0; i < k; i++ {
		j := i + src.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:k]
}

// point is a continuous position in position-matrix space.
type point struct {
	X, Y float64
}

// matrixBounds returns the largest column index and the largest vertical
// coordinate of the panel.
func matrixBounds(topo *panel.Topology) (xmax, ymax int) {
	xmax = topo.Width() - 1
	if xmax < 0 {
		xmax = 0
	}
	return xmax, int(topo.Height())
}
