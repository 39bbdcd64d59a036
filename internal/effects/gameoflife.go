package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var GameOfLifeSchema = anim.MustSchema("delay_ms.H,hue.H,hue_inc.B,num_init_cells.H,size_init_cell.B")

type GameOfLifeParams struct {
	DelayMs      int
	Hue          int
	HueInc       int
	NumInitCells int
	SizeInitCell int
}

func GameOfLifeParamsFrom(v anim.Values) GameOfLifeParams {
	return GameOfLifeParams{
		DelayMs:      v.Get("delay_ms", 150),
		Hue:          v.Get("hue", 120),
		HueInc:       v.Get("hue_inc", 8),
		NumInitCells: v.Get("num_init_cells", 12),
		SizeInitCell: v.Get("size_init_cell", 3),
	}
}

func (p GameOfLifeParams) Values() anim.Values {
	return anim.Values{
		"delay_ms":       p.DelayMs,
		"hue":            p.Hue,
		"hue_inc":        p.HueInc,
		"num_init_cells": p.NumInitCells,
		"size_init_cell": p.SizeInitCell,
	}
}

// GameOfLife runs Conway's rules over the neighbour graph. A live cell keeps
// an age that shifts its hue; a generation with no live cells reseeds the
// board.
type GameOfLife struct {
	params     GameOfLifeParams
	neighbours panel.Neighbours
	mapped     []uint16
	src        anim.Source

	frame    anim.Frame
	age      []int
	next     []int
	restarts int
	timer    anim.Timer
}

func NewGameOfLife(topo *panel.Topology, p GameOfLifeParams, src anim.Source) (*GameOfLife, error) {
	if err := checkPanel("gameoflife", topo); err != nil {
		return nil, err
	}
	n := topo.TotalPixels()
	g := &GameOfLife{
		params:     p,
		neighbours: topo.Neighbours,
		mapped:     topo.MappedIndices(),
		src:        src,
		frame:      anim.NewFrame(n),
		age:        make([]int, n),
		next:       make([]int, n),
		timer:      anim.NewTimer(p.DelayMs),
	}
	g.restart()
	return g, nil
}

func (g *GameOfLife) Name() string { return "gameoflife" }

// Restarts counts how many times the board has been reseeded, including the
// initial seeding.
func (g *GameOfLife) Restarts() int { return g.restarts }

// Alive returns the number of live cells.
func (g *GameOfLife) Alive() int {
	n := 0
	for _, a := range g.age {
		if a > 0 {
			n++
		}
	}
	return n
}

func (g *GameOfLife) Step(dt float64) anim.Frame {
	if g.timer.Advance(dt) {
		if g.generation() == 0 {
			g.restart()
		}
	}
	return g.frame
}

func (g *GameOfLife) generation() int {
	alive := 0
	for _, idx := range g.mapped {
		i := int(idx)
		occupied := 0
		for _, n := range g.neighbours[i] {
			if g.age[n] > 0 {
				occupied++
			}
		}

		switch {
		case g.age[i] == 0 && occupied == 3:
			g.next[i] = 1
		case g.age[i] > 0 && (occupied == 2 || occupied == 3):
			g.next[i] = g.age[i] + 1
		default:
			g.next[i] = 0
		}

		if g.next[i] > 0 {
			alive++
			g.frame[i] = g.cellColor(g.next[i])
		} else {
			g.frame[i] = color.Black
		}
	}
	g.age, g.next = g.next, g.age
	return alive
}

// cellColor gives newborn cells the base hue and shifts survivors by
// HueInc per generation of their new age.
func (g *GameOfLife) cellColor(age int) color.RGB {
	if age <= 1 {
		return color.HSVToRGB(g.params.Hue, 255, 255)
	}
	return color.HSVToRGB(g.params.Hue+age*g.params.HueInc, 255, 255)
}

// restart seeds up to NumInitCells clusters, each a free pixel plus a random
// sample of its neighbours. Attempts are capped at three per requested cell
// so crowded or tiny panels still terminate.
func (g *GameOfLife) restart() {
	g.restarts++
	remaining := g.params.NumInitCells
	for attempt := 0; remaining > 0 && attempt < 3*g.params.NumInitCells; attempt++ {
		pos := int(g.mapped[g.src.Intn(len(g.mapped))])
		ne := g.neighbours[pos]
		if g.age[pos] > 0 || g.anyOccupied(ne) {
			continue
		}
		g.seed(pos)
		for _, n := range sample(ne, g.params.SizeInitCell, g.src) {
			g.seed(int(n))
		}
		remaining--
	}
}

func (g *GameOfLife) anyOccupied(ne []uint16) bool {
	for _, n := range ne {
		if g.age[n] > 0 {
			return true
		}
	}
	return false
}

func (g *GameOfLife) seed(i int) {
	g.age[i] = 1
	g.frame[i] = g.cellColor(1)
}
