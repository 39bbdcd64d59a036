package effects

import (
	"math"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var MetaballsSchema = anim.MustSchema("delay_ms.H,n_mballs.B,max_speed.B,max_radius.B,hue_min.H,hue_max.H,hue_inc.B,hue_mode.B,drag.B")

type MetaballsParams struct {
	DelayMs   int
	NumBalls  int
	MaxSpeed  int
	MaxRadius int
	HueMin    int
	HueMax    int
	HueInc    int
	HueMode   int
	// Drag pulls balls toward their centroid, in thousandths.
	Drag int
}

func MetaballsParamsFrom(v anim.Values) MetaballsParams {
	return MetaballsParams{
		DelayMs:   v.Get("delay_ms", 30),
		NumBalls:  v.Get("n_mballs", 4),
		MaxSpeed:  v.Get("max_speed", 50),
		MaxRadius: v.Get("max_radius", 5),
		HueMin:    v.Get("hue_min", 0),
		HueMax:    v.Get("hue_max", 359),
		HueInc:    v.Get("hue_inc", 60),
		HueMode:   v.Get("hue_mode", int(color.HueWrap)),
		Drag:      v.Get("drag", 1),
	}
}

func (p MetaballsParams) Values() anim.Values {
	return anim.Values{
		"delay_ms":   p.DelayMs,
		"n_mballs":   p.NumBalls,
		"max_speed":  p.MaxSpeed,
		"max_radius": p.MaxRadius,
		"hue_min":    p.HueMin,
		"hue_max":    p.HueMax,
		"hue_inc":    p.HueInc,
		"hue_mode":   p.HueMode,
		"drag":       p.Drag,
	}
}

type metaball struct {
	pos   point
	speed point
	r2    float64
	r4    float64
	r6    float64
	rgb   color.RGB
}

// Metaballs floats soft colored blobs over the position matrix. Balls bounce
// off the panel edges and are dragged toward their common centroid.
type Metaballs struct {
	params MetaballsParams
	matrix panel.PositionMatrix
	xmax   float64
	ymax   float64
	drag   float64

	frame anim.Frame
	balls []metaball
	timer anim.Timer
}

func NewMetaballs(topo *panel.Topology, p MetaballsParams, src anim.Source) (*Metaballs, error) {
	if err := checkPanel("metaballs", topo); err != nil {
		return nil, err
	}
	mode, err := color.ParseHueMode(uint8(p.HueMode))
	if err != nil {
		return nil, &anim.ParamError{Animation: "metaballs", Field: "hue_mode", Wrapped: err}
	}
	xmax, ymax := matrixBounds(topo)
	m := &Metaballs{
		params: p,
		matrix: topo.Matrix,
		xmax:   float64(xmax),
		ymax:   float64(ymax),
		drag:   float64(p.Drag) / 1000,
		frame:  anim.NewFrame(topo.TotalPixels()),
		balls:  make([]metaball, p.NumBalls),
		timer:  anim.NewTimer(p.DelayMs),
	}
	hues := color.NewHueSequence(p.HueMin, p.HueMax, p.HueInc, mode, src)
	for i := range m.balls {
		m.balls[i] = newMetaball(xmax, ymax, p, src, color.HSVToRGB(hues.Next(), 255, 255))
	}
	m.render()
	return m, nil
}

func newMetaball(xmax, ymax int, p MetaballsParams, src anim.Source, c color.RGB) metaball {
	r := float64(anim.RandRange(src, p.MaxRadius*100/2, p.MaxRadius*100)) / 100
	s := 0.0
	if p.MaxSpeed > 0 {
		s = float64(src.Intn(p.MaxSpeed)) / 100
	}
	angle := 2 * math.Pi * float64(src.Intn(360)) / 360
	r2 := r * r
	return metaball{
		pos:   point{float64(anim.RandRange(src, 0, xmax)), float64(anim.RandRange(src, 0, ymax))},
		speed: point{s * math.Cos(angle), s * math.Sin(angle)},
		r2:    r2,
		r4:    r2 * r2,
		r6:    r2 * r2 * r2,
		rgb:   c,
	}
}

func (m *Metaballs) Name() string { return "metaballs" }

func (m *Metaballs) Step(dt float64) anim.Frame {
	if m.timer.Advance(dt) {
		m.move()
		m.render()
	}
	return m.frame
}

func (m *Metaballs) move() {
	if len(m.balls) == 0 {
		return
	}
	var c point
	for _, b := range m.balls {
		c.X += b.pos.X
		c.Y += b.pos.Y
	}
	c.X /= float64(len(m.balls))
	c.Y /= float64(len(m.balls))

	for i := range m.balls {
		b := &m.balls[i]
		dx, dy := c.X-b.pos.X, c.Y-b.pos.Y
		d := math.Sqrt(dx*dx + dy*dy)
		b.speed.X += dx * d * m.drag
		b.speed.Y += dy * d * m.drag

		var bx, by float64
		b.pos.X, bx = bounce(b.pos.X, b.speed.X, m.xmax)
		b.pos.Y, by = bounce(b.pos.Y, b.speed.Y, m.ymax)
		b.speed.X *= bx
		b.speed.Y *= by
	}
}

// bounce advances v by dv inside [0,max]. The returned sign flips the
// velocity when v hit an edge.
func bounce(v, dv, max float64) (float64, float64) {
	v += dv
	switch {
	case v < 0:
		return 0, -1
	case v > max:
		return max, -1
	}
	return v, 1
}

// influence is a smooth falloff from 1 at the center to 0 at the radius.
func influence(d2 float64, b *metaball) float64 {
	if d2 >= b.r2 {
		return 0
	}
	d4 := d2 * d2
	d6 := d4 * d2
	return -0.444*d6/b.r6 + 1.888*d4/b.r4 - 2.444*d2/b.r2 + 1
}

func (m *Metaballs) render() {
	for _, col := range m.matrix {
		for _, p := range col {
			x := float64(p.Column)
			var r, g, bl float64
			for i := range m.balls {
				b := &m.balls[i]
				dx, dy := b.pos.X-x, b.pos.Y-p.Y
				f := influence(dx*dx+dy*dy, b)
				r += float64(b.rgb.R) * f
				g += float64(b.rgb.G) * f
				bl += float64(b.rgb.B) * f
			}
			m.frame[p.Index] = color.RGB{
				R: uint8(clampFloat(r, 0, 255)),
				G: uint8(clampFloat(g, 0, 255)),
				B: uint8(clampFloat(bl, 0, 255)),
			}
		}
	}
}
