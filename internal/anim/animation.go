package anim

import "math/rand"

type Animation interface {
	Name() string
	// Step advances the animation by dt seconds and returns its frame.
	Step(dt float64) Frame
}

// Source is the randomness an animation draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// RandRange returns a value in [lo,hi), or lo when the range is empty.
func RandRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo)
}
