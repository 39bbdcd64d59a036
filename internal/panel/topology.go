package panel

import (
	"fmt"
	"math"
)

// Position is one pixel of the PositionMatrix.
type Position struct {
	Column int
	Y      float64
	Index  uint16
}

// PositionMatrix holds one column per strip, ordered by physical position.
type PositionMatrix [][]Position

// Neighbours maps every pixel address to its adjacent addresses. Addresses
// not covered by any strip have no neighbours.
type Neighbours [][]uint16

type Topology struct {
	Strips     []Strip
	Lines      [][]uint16
	Matrix     PositionMatrix
	Neighbours Neighbours

	total   int
	longest int
	mapped  []bool
}

// Build derives the position matrix and the neighbour graph from strips.
// The result depends only on strips; building twice yields identical graphs.
func Build(strips []Strip) (*Topology, error) {
	if len(strips) == 0 {
		return nil, ErrEmpty
	}

	t := &Topology{
		Strips:  append([]Strip(nil), strips...),
		total:   TotalPixels(strips),
		longest: Longest(strips),
	}
	if t.total > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d pixels", ErrAddressRange, t.total)
	}

	t.mapped = make([]bool, t.total)
	t.Lines = make([][]uint16, len(strips))
	for i, s := range strips {
		t.Lines[i] = s.Indices()
		for _, idx := range t.Lines[i] {
			if t.mapped[idx] {
				return nil, fmt.Errorf("%w: address %d in strip %d", ErrOverlap, idx, i)
			}
			t.mapped[idx] = true
		}
	}

	t.Matrix = makePositionMatrix(t.Lines, t.longest)
	t.Neighbours = makeNeighbours(t.Matrix, t.total)
	return t, nil
}

// MustBuild is Build for static descriptor sets known to be valid.
func MustBuild(strips []Strip) *Topology {
	t, err := Build(strips)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Topology) TotalPixels() int { return t.total }
func (t *Topology) Longest() int     { return t.longest }
func (t *Topology) Width() int       { return len(t.Matrix) }

// Height returns the largest vertical coordinate of the matrix.
func (t *Topology) Height() float64 {
	if t.longest == 0 {
		return 0
	}
	return float64(t.longest - 1)
}

// Mapped reports whether address i belongs to a strip.
func (t *Topology) Mapped(i int) bool {
	return i >= 0 && i < len(t.mapped) && t.mapped[i]
}

// MappedIndices returns every address that belongs to a strip, in column order.
func (t *Topology) MappedIndices() []uint16 {
	out := make([]uint16, 0, t.total)
	for _, line := range t.Lines {
		out = append(out, line...)
	}
	return out
}

// Scale returns the vertical coordinate spacing of a strip with n pixels
// against a tallest strip of longest pixels. Single-pixel strips get 0.
func Scale(n, longest int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(longest-1) / float64(n-1)
}

func makePositionMatrix(lines [][]uint16, longest int) PositionMatrix {
	m := make(PositionMatrix, len(lines))
	for i, line := range lines {
		d := Scale(len(line), longest)
		col := make([]Position, len(line))
		for j, idx := range line {
			col[j] = Position{Column: i, Y: float64(j) * d, Index: idx}
		}
		m[i] = col
	}
	return m
}

func makeNeighbours(m PositionMatrix, total int) Neighbours {
	ne := make(Neighbours, total)
	coords := make([][]float64, len(m))
	for i, col := range m {
		coords[i] = make([]float64, len(col))
		for j, p := range col {
			coords[i][j] = p.Y
		}
	}

	for i, col := range m {
		for j, p := range col {
			list := make([]uint16, 0, 6)
			if i > 0 {
				for _, k := range FindClosest(coords[i-1], p.Y) {
					list = append(list, m[i-1][k].Index)
				}
			}
			if j > 0 {
				list = append(list, col[j-1].Index)
			}
			if i < len(m)-1 {
				for _, k := range FindClosest(coords[i+1], p.Y) {
					list = append(list, m[i+1][k].Index)
				}
			}
			if j < len(col)-1 {
				list = append(list, col[j+1].Index)
			}
			ne[p.Index] = list
		}
	}
	return ne
}

// FindClosest returns the position(s) in the ascending vector v closest to x.
// An exact match yields one index; a value between two elements yields both
// bracketing indices; values outside the range yield the nearest end.
// An empty vector yields nil.
func FindClosest(v []float64, x float64) []int {
	if len(v) == 0 {
		return nil
	}
	for k, val := range v {
		if val == x {
			return []int{k}
		}
		if val > x {
			if k > 0 {
				return []int{k - 1, k}
			}
			return []int{k}
		}
	}
	return []int{len(v) - 1}
}
