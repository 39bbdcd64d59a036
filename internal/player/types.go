package player

import "github.com/san-kum/ledpanel/internal/anim"

// Sink receives every frame the player produces. The frame is only valid
// until the next step.
type Sink interface {
	WriteFrame(f anim.Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f anim.Frame) error

func (fn SinkFunc) WriteFrame(f anim.Frame) error { return fn(f) }

type Metric interface {
	Name() string
	Observe(f anim.Frame, t float64)
	Value() float64
	Reset()
}

type Result struct {
	Animation string
	Params    anim.Values
	Frames    []anim.Frame
	Times     []float64
	Metrics   map[string]float64
}
