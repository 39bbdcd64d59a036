package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var HorizontalWaveSchema = anim.MustSchema("delay_ms.H,hue_step.B,hue_inc.B")

type HorizontalWaveParams struct {
	DelayMs int
	HueStep int
	HueInc  int
}

func HorizontalWaveParamsFrom(v anim.Values) HorizontalWaveParams {
	return HorizontalWaveParams{
		DelayMs: v.Get("delay_ms", 100),
		HueStep: v.Get("hue_step", 10),
		HueInc:  v.Get("hue_inc", 1),
	}
}

func (p HorizontalWaveParams) Values() anim.Values {
	return anim.Values{"delay_ms": p.DelayMs, "hue_step": p.HueStep, "hue_inc": p.HueInc}
}

// HorizontalWave paints each strip a solid hue, offset from its neighbour
// strip by HueStep, and rotates every strip's hue by HueInc per tick.
type HorizontalWave struct {
	params HorizontalWaveParams
	lines  [][]uint16
	frame  anim.Frame
	hues   []int
	timer  anim.Timer
}

func NewHorizontalWave(topo *panel.Topology, p HorizontalWaveParams, _ anim.Source) (*HorizontalWave, error) {
	if err := checkPanel("hwave", topo); err != nil {
		return nil, err
	}
	w := &HorizontalWave{
		params: p,
		lines:  topo.Lines,
		frame:  anim.NewFrame(topo.TotalPixels()),
		hues:   make([]int, len(topo.Lines)),
		timer:  anim.NewTimer(p.DelayMs),
	}
	h := 0
	for i := range w.hues {
		w.hues[i] = h
		h = color.HueIncrement(h, p.HueStep%360)
	}
	w.paint()
	return w, nil
}

func (w *HorizontalWave) Name() string { return "hwave" }

func (w *HorizontalWave) Step(dt float64) anim.Frame {
	if w.timer.Advance(dt) {
		for i := range w.hues {
			w.hues[i] = color.HueIncrement(w.hues[i], w.params.HueInc%360)
		}
		w.paint()
	}
	return w.frame
}

func (w *HorizontalWave) paint() {
	for i, line := range w.lines {
		c := color.HSVToRGB(w.hues[i], 255, 255)
		for _, idx := range line {
			w.frame[idx] = c
		}
	}
}
