package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var WaveSchema = anim.MustSchema("delay_ms.H,inc.B,direction.B")

type WaveParams struct {
	DelayMs int
	Inc     int
	// Forward shifts the rainbow toward lower addresses.
	Forward bool
}

func WaveParamsFrom(v anim.Values) WaveParams {
	return WaveParams{
		DelayMs: v.Get("delay_ms", 500),
		Inc:     v.Get("inc", 1),
		Forward: v.Get("direction", 0) != 0,
	}
}

func (p WaveParams) Values() anim.Values {
	dir := 0
	if p.Forward {
		dir = 1
	}
	return anim.Values{"delay_ms": p.DelayMs, "inc": p.Inc, "direction": dir}
}

// Wave lays a rainbow along the wiring order and scrolls it one address per
// tick.
type Wave struct {
	params WaveParams
	frame  anim.Frame
	hue    int
	timer  anim.Timer
}

func NewWave(topo *panel.Topology, p WaveParams, _ anim.Source) (*Wave, error) {
	if err := checkPanel("wave", topo); err != nil {
		return nil, err
	}
	w := &Wave{
		params: p,
		frame:  anim.NewFrame(topo.TotalPixels()),
		timer:  anim.NewTimer(p.DelayMs),
	}
	h := 0
	for i := range w.frame {
		w.frame[i] = color.HSVToRGB(h, 255, 255)
		h = color.HueIncrement(h, p.Inc%360)
	}
	if p.Forward {
		w.hue = h
	}
	return w, nil
}

func (w *Wave) Name() string { return "wave" }

func (w *Wave) Step(dt float64) anim.Frame {
	if !w.timer.Advance(dt) {
		return w.frame
	}
	inc := w.params.Inc % 360
	n := len(w.frame)
	if w.params.Forward {
		copy(w.frame, w.frame[1:])
		w.hue = color.HueIncrement(w.hue, inc)
		w.frame[n-1] = color.HSVToRGB(w.hue, 255, 255)
	} else {
		copy(w.frame[1:], w.frame[:n-1])
		w.hue = color.HueIncrement(w.hue, -inc)
		w.frame[0] = color.HSVToRGB(w.hue, 255, 255)
	}
	return w.frame
}
