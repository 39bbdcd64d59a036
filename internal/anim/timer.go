package anim

// Timer accumulates elapsed time in milliseconds and fires once the total
// exceeds Delay. Firing resets the accumulator to zero, so any overshoot is
// dropped rather than carried into the next period.
type Timer struct {
	Delay float64
	acc   float64
}

func NewTimer(delayMs int) Timer {
	return Timer{Delay: float64(delayMs)}
}

func (t *Timer) Advance(dt float64) bool {
	t.acc += dt * 1000
	if t.acc > t.Delay {
		t.acc = 0
		return true
	}
	return false
}

func (t *Timer) Elapsed() float64 { return t.acc }

func (t *Timer) Reset() { t.acc = 0 }
