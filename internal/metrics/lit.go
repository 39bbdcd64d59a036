package metrics

import "github.com/san-kum/ledpanel/internal/anim"

// Lit is the fraction of pixels of f that are not black.
func Lit(f anim.Frame) float64 {
	if len(f) == 0 {
		return 0
	}
	return float64(f.Lit()) / float64(len(f))
}

type LitFraction struct {
	name    string
	lit     float64
	samples int
}

func NewLitFraction() *LitFraction {
	return &LitFraction{name: "lit"}
}

func (l *LitFraction) Name() string { return l.name }

func (l *LitFraction) Observe(f anim.Frame, t float64) {
	l.lit += Lit(f)
	l.samples++
}

func (l *LitFraction) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.lit / float64(l.samples)
}

func (l *LitFraction) Reset() {
	l.lit = 0
	l.samples = 0
}
