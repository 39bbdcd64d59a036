package color

import "fmt"

type HueMode uint8

const (
	HueBounce HueMode = iota
	HueWrap
	HueRandom
)

func ParseHueMode(v uint8) (HueMode, error) {
	if v > uint8(HueRandom) {
		return HueBounce, fmt.Errorf("color: invalid hue mode %d", v)
	}
	return HueMode(v), nil
}

// Intn is the randomness HueSequence needs in random mode.
type Intn interface {
	Intn(n int) int
}

// HueSequence produces hues in [Min,Max] on demand.
type HueSequence struct {
	Min, Max int
	Inc      int
	Mode     HueMode

	hue  int
	step int
	rng  Intn
}

// NewHueSequence returns a sequence starting at min. rng is only used in
// random mode and may be nil otherwise.
func NewHueSequence(min, max, inc int, mode HueMode, rng Intn) *HueSequence {
	if max < min {
		min, max = max, min
	}
	s := &HueSequence{Min: min, Max: max, Inc: inc, Mode: mode, rng: rng}
	s.Reset()
	return s
}

func (s *HueSequence) Reset() {
	s.hue = s.Min
	s.step = s.Inc
}

func (s *HueSequence) Next() int {
	if s.Mode == HueRandom {
		if s.rng == nil || s.Max == s.Min {
			return s.Min
		}
		return s.Min + s.rng.Intn(s.Max-s.Min)
	}

	h := s.hue
	s.hue += s.step
	switch s.Mode {
	case HueWrap:
		if s.hue > s.Max {
			s.hue = s.Min
		} else if s.hue < s.Min {
			s.hue = s.Max
		}
	default:
		if s.hue > s.Max {
			s.hue = s.Max
			s.step = -s.step
		} else if s.hue < s.Min {
			s.hue = s.Min
			s.step = -s.step
		}
	}
	return h
}
