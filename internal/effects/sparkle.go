package effects

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

var SparkleSchema = anim.MustSchema("delay_new_ms.H,delay_fade_ms.H,fade.B")

type SparkleParams struct {
	DelayNewMs  int
	DelayFadeMs int
	Fade        int
}

func SparkleParamsFrom(v anim.Values) SparkleParams {
	return SparkleParams{
		DelayNewMs:  v.Get("delay_new_ms", 40),
		DelayFadeMs: v.Get("delay_fade_ms", 20),
		Fade:        v.Get("fade", 230),
	}
}

func (p SparkleParams) Values() anim.Values {
	return anim.Values{
		"delay_new_ms":  p.DelayNewMs,
		"delay_fade_ms": p.DelayFadeMs,
		"fade":          p.Fade,
	}
}

// Sparkle lights random pixels in random hues and fades the whole panel on
// a separate timer.
type Sparkle struct {
	params SparkleParams
	mapped []uint16
	src    anim.Source

	frame anim.Frame
	spawn anim.Timer
	fade  anim.Timer
}

func NewSparkle(topo *panel.Topology, p SparkleParams, src anim.Source) (*Sparkle, error) {
	if err := checkPanel("sparkle", topo); err != nil {
		return nil, err
	}
	return &Sparkle{
		params: p,
		mapped: topo.MappedIndices(),
		src:    src,
		frame:  anim.NewFrame(topo.TotalPixels()),
		spawn:  anim.NewTimer(p.DelayNewMs),
		fade:   anim.NewTimer(p.DelayFadeMs),
	}, nil
}

func (s *Sparkle) Name() string { return "sparkle" }

func (s *Sparkle) Step(dt float64) anim.Frame {
	if s.spawn.Advance(dt) {
		idx := s.mapped[s.src.Intn(len(s.mapped))]
		s.frame[idx] = color.HSVToRGB(s.src.Intn(360), 255, 255)
	}
	if s.fade.Advance(dt) {
		scale := uint8(s.params.Fade)
		for i, c := range s.frame {
			s.frame[i] = color.Scale8(c, scale)
		}
	}
	return s.frame
}
