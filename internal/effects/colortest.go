package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var ColortestSchema = anim.MustSchema("delay_ms.H")

type ColortestParams struct {
	DelayMs int
}

func ColortestParamsFrom(v anim.Values) ColortestParams {
	return ColortestParams{DelayMs: v.Get("delay_ms", 100)}
}

func (p ColortestParams) Values() anim.Values {
	return anim.Values{"delay_ms": p.DelayMs}
}

var testColors = [...]color.RGB{{R: 255}, {G: 255}, {B: 255}}

// Colortest lights one address at a time in red, green then blue and walks
// through the whole address space in wiring order.
type Colortest struct {
	frame anim.Frame
	pos   int
	cur   int
	timer anim.Timer
}

func NewColortest(topo *panel.Topology, p ColortestParams, _ anim.Source) (*Colortest, error) {
	if err := checkPanel("colortest", topo); err != nil {
		return nil, err
	}
	c := &Colortest{
		frame: anim.NewFrame(topo.TotalPixels()),
		timer: anim.NewTimer(p.DelayMs),
	}
	c.frame[0] = testColors[0]
	return c, nil
}

func (c *Colortest) Name() string { return "colortest" }

func (c *Colortest) Step(dt float64) anim.Frame {
	if !c.timer.Advance(dt) {
		return c.frame
	}
	c.cur++
	if c.cur >= len(testColors) {
		c.cur = 0
		c.frame[c.pos] = color.Black
		c.pos = (c.pos + 1) % len(c.frame)
	}
	c.frame[c.pos] = testColors[c.cur]
	return c.frame
}
