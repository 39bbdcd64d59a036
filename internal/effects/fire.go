package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var FireSchema = anim.MustSchema("delay_ms.H,cooling.B,sparking.B,reverse.B")

type FireParams struct {
	DelayMs  int
	Cooling  int
	Sparking int
	Reverse  bool
}

func FireParamsFrom(v anim.Values) FireParams {
	return FireParams{
		DelayMs:  v.Get("delay_ms", 30),
		Cooling:  v.Get("cooling", 55),
		Sparking: v.Get("sparking", 120),
		Reverse:  v.Get("reverse", 0) != 0,
	}
}

func (p FireParams) Values() anim.Values {
	rev := 0
	if p.Reverse {
		rev = 1
	}
	return anim.Values{
		"delay_ms": p.DelayMs,
		"cooling":  p.Cooling,
		"sparking": p.Sparking,
		"reverse":  rev,
	}
}

// Fire keeps a heat value per pixel and runs the classic cool, rise and
// spark cycle along every strip independently.
type Fire struct {
	params  FireParams
	lines   [][]uint16
	longest int
	src     anim.Source

	frame anim.Frame
	heat  []uint8
	timer anim.Timer
}

func NewFire(topo *panel.Topology, p FireParams, src anim.Source) (*Fire, error) {
	if err := checkPanel("fire", topo); err != nil {
		return nil, err
	}
	lines := make([][]uint16, len(topo.Lines))
	for i, l := range topo.Lines {
		lines[i] = append([]uint16(nil), l...)
		if p.Reverse {
			reverse(lines[i])
		}
	}
	return &Fire{
		params:  p,
		lines:   lines,
		longest: topo.Longest(),
		src:     src,
		frame:   anim.NewFrame(topo.TotalPixels()),
		heat:    make([]uint8, topo.TotalPixels()),
		timer:   anim.NewTimer(p.DelayMs),
	}, nil
}

func (f *Fire) Name() string { return "fire" }

// Heat returns the heat of address i.
func (f *Fire) Heat(i int) uint8 { return f.heat[i] }

func (f *Fire) Step(dt float64) anim.Frame {
	if !f.timer.Advance(dt) {
		return f.frame
	}
	coolingFactor := f.params.Cooling*10/f.longest + 2
	for _, line := range f.lines {
		if len(line) == 0 {
			continue
		}
		f.cool(line, coolingFactor)
		f.rise(line)
		f.spark(line)
	}
	for _, line := range f.lines {
		for _, idx := range line {
			f.frame[idx] = color.HeatColor(f.heat[idx])
		}
	}
	return f.frame
}

func (f *Fire) cool(line []uint16, factor int) {
	for _, idx := range line {
		h := int(f.heat[idx]) - f.src.Intn(factor)
		if h < 0 {
			h = 0
		}
		f.heat[idx] = uint8(h)
	}
}

// rise moves heat away from the near end: each cell becomes a weighted
// average of the two cells below it, walking from the far end down.
func (f *Fire) rise(line []uint16) {
	for k := len(line) - 1; k >= 2; k-- {
		below1 := int(f.heat[line[k-1]])
		below2 := int(f.heat[line[k-2]])
		f.heat[line[k]] = uint8((below1 + 2*below2) / 3)
	}
}

func (f *Fire) spark(line []uint16) {
	if f.src.Intn(255) >= f.params.Sparking {
		return
	}
	idx := line[f.src.Intn(len(line))/3]
	h := int(f.heat[idx]) + 160 + f.src.Intn(96)
	if h > 255 {
		h = 255
	}
	f.heat[idx] = uint8(h)
}

func reverse(s []uint16) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
