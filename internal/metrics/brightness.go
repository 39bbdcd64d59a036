// Package metrics summarizes frame sequences. Each metric accumulates a
// per-frame measure and reports its mean over the observed frames.
package metrics

import "github.com/san-kum/ledpanel/internal/anim"

// Brightness is the mean luma of f in [0,255].
func Brightness(f anim.Frame) float64 {
	if len(f) == 0 {
		return 0
	}
	sum := 0
	for _, c := range f {
		sum += int(c.Luma())
	}
	return float64(sum) / float64(len(f))
}

type MeanBrightness struct {
	name    string
	sum     float64
	samples int
}

func NewMeanBrightness() *MeanBrightness {
	return &MeanBrightness{name: "brightness"}
}

func (m *MeanBrightness) Name() string { return m.name }

func (m *MeanBrightness) Observe(f anim.Frame, t float64) {
	m.sum += Brightness(f)
	m.samples++
}

func (m *MeanBrightness) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanBrightness) Reset() {
	m.sum = 0
	m.samples = 0
}
