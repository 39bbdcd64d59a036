package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var WorleySchema = anim.MustSchema("delay_ms.H,num_features.B,hue_min.H,hue_max.H,move_speed.B")

type WorleyParams struct {
	DelayMs     int
	NumFeatures int
	HueMin      int
	HueMax      int
	MoveSpeed   int
}

func WorleyParamsFrom(v anim.Values) WorleyParams {
	return WorleyParams{
		DelayMs:     v.Get("delay_ms", 60),
		NumFeatures: v.Get("num_features", 5),
		HueMin:      v.Get("hue_min", 0),
		HueMax:      v.Get("hue_max", 360),
		MoveSpeed:   v.Get("move_speed", 1),
	}
}

func (p WorleyParams) Values() anim.Values {
	return anim.Values{
		"delay_ms":     p.DelayMs,
		"num_features": p.NumFeatures,
		"hue_min":      p.HueMin,
		"hue_max":      p.HueMax,
		"move_speed":   p.MoveSpeed,
	}
}

// Worley shades every pixel by its distance to the nearest of a few
// wandering feature points, normalized per feature so each cell spans the
// full brightness range.
type Worley struct {
	params WorleyParams
	matrix panel.PositionMatrix
	xmax   int
	ymax   int
	src    anim.Source

	frame    anim.Frame
	features []point
	hues     []int
	nearest  []int
	dist     []float64
	longest  []float64
	timer    anim.Timer
}

func NewWorley(topo *panel.Topology, p WorleyParams, src anim.Source) (*Worley, error) {
	if err := checkPanel("worley", topo); err != nil {
		return nil, err
	}
	// Features may sit one column past the last strip.
	_, ymax := matrixBounds(topo)
	xmax := topo.Width()
	w := &Worley{
		params:   p,
		matrix:   topo.Matrix,
		xmax:     xmax,
		ymax:     ymax,
		src:      src,
		frame:    anim.NewFrame(topo.TotalPixels()),
		features: make([]point, p.NumFeatures),
		hues:     make([]int, p.NumFeatures),
		nearest:  make([]int, topo.TotalPixels()),
		dist:     make([]float64, topo.TotalPixels()),
		longest:  make([]float64, p.NumFeatures),
		timer:    anim.NewTimer(p.DelayMs),
	}
	for i := range w.features {
		w.features[i] = point{float64(anim.RandRange(src, 0, xmax)), float64(anim.RandRange(src, 0, ymax))}
		w.hues[i] = anim.RandRange(src, p.HueMin, p.HueMax)
	}
	w.render()
	return w, nil
}

func (w *Worley) Name() string { return "worley" }

func (w *Worley) Step(dt float64) anim.Frame {
	if w.timer.Advance(dt) {
		w.move()
		w.render()
	}
	return w.frame
}

func (w *Worley) move() {
	s := w.params.MoveSpeed
	for i := range w.features {
		f := &w.features[i]
		f.X = clampFloat(f.X+float64(w.src.Intn(2*s+1)-s), 0, float64(w.xmax))
		f.Y = clampFloat(f.Y+float64(w.src.Intn(2*s+1)-s), 0, float64(w.ymax))
	}
}

func (w *Worley) render() {
	if len(w.features) == 0 {
		w.frame.Clear()
		return
	}
	for i := range w.longest {
		w.longest[i] = 0
	}

	for _, col := range w.matrix {
		for _, p := range col {
			x := float64(p.Column)
			best, bestD := 0, -1.0
			for fi, f := range w.features {
				dx, dy := x-f.X, p.Y-f.Y
				d := dx*dx + dy*dy
				if bestD < 0 || d < bestD {
					best, bestD = fi, d
				}
			}
			w.nearest[p.Index] = best
			w.dist[p.Index] = bestD
			if bestD > w.longest[best] {
				w.longest[best] = bestD
			}
		}
	}

	for _, col := range w.matrix {
		for _, p := range col {
			fi := w.nearest[p.Index]
			val := 0.0
			if w.longest[fi] > 0 {
				val = w.dist[p.Index] / w.longest[fi]
			}
			v := clampInt(255-int(255*val), 0, 255)
			w.frame[p.Index] = color.HSVToRGB(w.hues[fi], 255, uint8(v))
		}
	}
}
