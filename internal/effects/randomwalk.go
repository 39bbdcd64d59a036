package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var RandomWalkSchema = anim.MustSchema("delay_ms.H,fade_delay_ms.H,hue_inc.B,fade.B")

type RandomWalkParams struct {
	DelayMs     int
	FadeDelayMs int
	HueInc      int
	Fade        int
}

func RandomWalkParamsFrom(v anim.Values) RandomWalkParams {
	return RandomWalkParams{
		DelayMs:     v.Get("delay_ms", 50),
		FadeDelayMs: v.Get("fade_delay_ms", 20),
		HueInc:      v.Get("hue_inc", 1),
		Fade:        v.Get("fade", 200),
	}
}

func (p RandomWalkParams) Values() anim.Values {
	return anim.Values{
		"delay_ms":      p.DelayMs,
		"fade_delay_ms": p.FadeDelayMs,
		"hue_inc":       p.HueInc,
		"fade":          p.Fade,
	}
}

// RandomWalk moves a single lit pixel across the neighbour graph, preferring
// neighbours that have faded the most, and leaves a fading trail behind it.
type RandomWalk struct {
	params     RandomWalkParams
	neighbours panel.Neighbours
	src        anim.Source

	frame      anim.Frame
	brightness []uint8
	pos        int
	hue        int

	move anim.Timer
	fade anim.Timer
}

func NewRandomWalk(topo *panel.Topology, p RandomWalkParams, src anim.Source) (*RandomWalk, error) {
	if err := checkPanel("randomwalk", topo); err != nil {
		return nil, err
	}
	mapped := topo.MappedIndices()
	w := &RandomWalk{
		params:     p,
		neighbours: topo.Neighbours,
		src:        src,
		frame:      anim.NewFrame(topo.TotalPixels()),
		brightness: make([]uint8, topo.TotalPixels()),
		pos:        int(mapped[src.Intn(len(mapped))]),
		move:       anim.NewTimer(p.DelayMs),
		fade:       anim.NewTimer(p.FadeDelayMs),
	}
	w.paint()
	return w, nil
}

func (w *RandomWalk) Name() string { return "randomwalk" }

// Position is the address of the walker.
func (w *RandomWalk) Position() int { return w.pos }

func (w *RandomWalk) Step(dt float64) anim.Frame {
	if w.move.Advance(dt) {
		w.hue = color.HueIncrement(w.hue, w.params.HueInc)
		w.pos = w.next()
		w.paint()
	}
	if w.fade.Advance(dt) {
		w.fadeTrail()
	}
	return w.frame
}

// next picks the walker's next address. A pixel without neighbours keeps
// the walker in place.
func (w *RandomWalk) next() int {
	ne := w.neighbours[w.pos]
	if len(ne) == 0 {
		return w.pos
	}
	weights := make([]int, len(ne))
	for i, n := range ne {
		weights[i] = 255 - int(w.brightness[n])
	}
	return int(ne[pickWeighted(weights, w.src)])
}

func (w *RandomWalk) paint() {
	w.frame[w.pos] = color.HSVToRGB(w.hue, 255, 255)
	w.brightness[w.pos] = 255
}

func (w *RandomWalk) fadeTrail() {
	scale := uint8(w.params.Fade)
	f := uint16(w.params.Fade) + 1
	for i := range w.frame {
		if i == w.pos {
			continue
		}
		w.frame[i] = color.Scale8(w.frame[i], scale)
		w.brightness[i] = uint8((uint16(w.brightness[i]) * f) >> 8)
	}
}
