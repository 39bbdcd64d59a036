package anim

import "github.com/san-kum/ledpanel/internal/color"

// Frame is one RGB value per pixel address.
type Frame []color.RGB

func NewFrame(n int) Frame {
	return make(Frame, n)
}

func (f Frame) Fill(c color.RGB) {
	for i := range f {
		f[i] = c
	}
}

func (f Frame) Clear() { f.Fill(color.Black) }

func (f Frame) Clone() Frame {
	return append(Frame(nil), f...)
}

func (f Frame) Equal(o Frame) bool {
	if len(f) != len(o) {
		return false
	}
	for i := range f {
		if f[i] != o[i] {
			return false
		}
	}
	return true
}

// Lit counts pixels that are not black.
func (f Frame) Lit() int {
	n := 0
	for _, c := range f {
		if c != color.Black {
			n++
		}
	}
	return n
}
