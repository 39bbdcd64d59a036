package metrics

import "github.com/san-kum/ledpanel/internal/anim"

// Change is the fraction of pixels that differ between prev and cur. A nil
// prev or a length mismatch counts every pixel as changed.
func Change(prev, cur anim.Frame) float64 {
	if len(cur) == 0 {
		return 0
	}
	if len(prev) != len(cur) {
		return 1
	}
	n := 0
	for i := range cur {
		if cur[i] != prev[i] {
			n++
		}
	}
	return float64(n) / float64(len(cur))
}

// ChangeRate averages Change between consecutive observed frames. The first
// frame only primes the comparison.
type ChangeRate struct {
	name    string
	prev    anim.Frame
	sum     float64
	samples int
}

func NewChangeRate() *ChangeRate {
	return &ChangeRate{name: "change"}
}

func (c *ChangeRate) Name() string { return c.name }

func (c *ChangeRate) Observe(f anim.Frame, t float64) {
	if c.prev != nil {
		c.sum += Change(c.prev, f)
		c.samples++
	}
	c.prev = append(c.prev[:0], f...)
}

func (c *ChangeRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ChangeRate) Reset() {
	c.prev = nil
	c.sum = 0
	c.samples = 0
}
