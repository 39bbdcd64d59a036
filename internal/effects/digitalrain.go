package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var DigitalRainSchema = anim.MustSchema("delay_ms.H,hue.H,head_len.B,tail_len_min.B,tail_len_max.B")

type DigitalRainParams struct {
	DelayMs    int
	Hue        int
	HeadLen    int
	TailLenMin int
	TailLenMax int
}

// DigitalRainParamsFrom resolves tail length defaults against the longest
// strip of topo.
func DigitalRainParamsFrom(v anim.Values, topo *panel.Topology) DigitalRainParams {
	longest := 0
	if topo != nil {
		longest = topo.Longest()
	}
	return DigitalRainParams{
		DelayMs:    v.Get("delay_ms", 20),
		Hue:        v.Get("hue", 120),
		HeadLen:    v.Get("head_len", 3),
		TailLenMin: v.Get("tail_len_min", longest/3),
		TailLenMax: v.Get("tail_len_max", longest),
	}
}

func (p DigitalRainParams) Values() anim.Values {
	return anim.Values{
		"delay_ms":     p.DelayMs,
		"hue":          p.Hue,
		"head_len":     p.HeadLen,
		"tail_len_min": p.TailLenMin,
		"tail_len_max": p.TailLenMax,
	}
}

type lineState uint8

const (
	lineWaiting lineState = iota
	lineDrawing
)

type rainLine struct {
	state  lineState
	pos    int
	length int
	delay  int
}

// DigitalRain drops a white head with a fading tail down every strip, each
// strip waiting a random number of ticks between drops.
type DigitalRain struct {
	params  DigitalRainParams
	lines   [][]uint16
	longest int
	src     anim.Source

	frame anim.Frame
	rain  []rainLine
	fades map[int][]uint8
	timer anim.Timer
}

func NewDigitalRain(topo *panel.Topology, p DigitalRainParams, src anim.Source) (*DigitalRain, error) {
	if err := checkPanel("digitalrain", topo); err != nil {
		return nil, err
	}
	d := &DigitalRain{
		params:  p,
		lines:   make([][]uint16, len(topo.Lines)),
		longest: topo.Longest(),
		src:     src,
		frame:   anim.NewFrame(topo.TotalPixels()),
		rain:    make([]rainLine, len(topo.Lines)),
		fades:   make(map[int][]uint8),
		timer:   anim.NewTimer(p.DelayMs),
	}
	// drops travel from the first physical pixel, which is the end of the
	// reversed line
	for i, l := range topo.Lines {
		d.lines[i] = append([]uint16(nil), l...)
		reverse(d.lines[i])
		d.restart(i)
	}
	return d, nil
}

func (d *DigitalRain) Name() string { return "digitalrain" }

func (d *DigitalRain) Step(dt float64) anim.Frame {
	if !d.timer.Advance(dt) {
		return d.frame
	}
	for i := range d.rain {
		line := &d.rain[i]
		if line.state == lineWaiting {
			if line.delay == 0 {
				line.state = lineDrawing
			} else {
				line.delay--
			}
			continue
		}
		line.pos--
		if !d.draw(i) {
			d.restart(i)
		}
	}
	return d.frame
}

func (d *DigitalRain) restart(i int) {
	d.rain[i] = rainLine{
		state:  lineWaiting,
		pos:    len(d.lines[i]) - 1,
		length: d.tailLength(),
		delay:  anim.RandRange(d.src, 0, d.longest),
	}
}

func (d *DigitalRain) tailLength() int {
	lo, hi := d.params.TailLenMin, d.params.TailLenMax
	if hi < lo {
		lo, hi = hi, lo
	}
	l := anim.RandRange(d.src, lo, hi)
	if l < 1 {
		l = 1
	}
	return l
}

// draw paints the line at its current position and reports whether any of
// it is still inside the strip.
func (d *DigitalRain) draw(i int) bool {
	li := d.lines[i]
	line := d.rain[i]
	n := len(li)

	hmin := clampInt(line.pos, 0, n)
	hmax := clampInt(line.pos+d.params.HeadLen, 0, n)
	for k := hmin; k < hmax; k++ {
		d.frame[li[k]] = color.White
	}

	tstart := line.pos + d.params.HeadLen
	tmin := clampInt(tstart, 0, n)
	tmax := clampInt(tstart+line.length, 0, n)
	if tmax <= 0 {
		if n > 0 {
			d.frame[li[0]] = color.Black
		}
		return false
	}

	fade := d.fade(line.length)
	for k := tmin; k < tmax; k++ {
		d.frame[li[k]] = color.HSVToRGB(d.params.Hue, 255, fade[k-tstart])
	}
	if tmax < n {
		d.frame[li[tmax]] = color.Black
	}
	return true
}

// fade returns the tail brightness ramp for length l, cached per length.
func (d *DigitalRain) fade(l int) []uint8 {
	if f, ok := d.fades[l]; ok {
		return f
	}
	f := make([]uint8, l)
	step := 255.0 / float64(l)
	for i := range f {
		f[i] = uint8(255 - step*float64(i))
	}
	d.fades[l] = f
	return f
}
