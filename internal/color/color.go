// Package color provides the 8-bit fixed-point color primitives shared by
// every animation.
package color

import "fmt"

type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	White = RGB{255, 255, 255}
)

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Luma returns the integer brightness of c (Rec. 601 weights).
func (c RGB) Luma() uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
}

// HueIncrement adds inc to h and wraps the result back into [0,360) with a
// single correction step.
func HueIncrement(h, inc int) int {
	h += inc
	if h >= 360 {
		return h - 360
	}
	if h < 0 {
		return h + 360
	}
	return h
}

// HSVToRGB converts h in degrees (any integer, taken mod 360) and s,v in
// [0,255] using sector-based 8-bit interpolation.
func HSVToRGB(h int, s, v uint8) RGB {
	h %= 360
	if h < 0 {
		h += 360
	}
	region := h / 60
	remainder := uint32(h-region*60) * (256 / 60)

	vv, ss := uint32(v), uint32(s)
	p := uint8((vv * (255 - ss)) >> 8)
	q := uint8((vv * (255 - ((ss * remainder) >> 8))) >> 8)
	t := uint8((vv * (255 - ((ss * (255 - remainder)) >> 8))) >> 8)

	switch region {
	case 0:
		return RGB{v, t, p}
	case 1:
		return RGB{q, v, p}
	case 2:
		return RGB{p, v, t}
	case 3:
		return RGB{p, q, v}
	case 4:
		return RGB{t, p, v}
	default:
		return RGB{v, p, q}
	}
}

// Scale8 multiplies each channel by scale+1 and keeps the high byte.
func Scale8(c RGB, scale uint8) RGB {
	f := uint16(scale) + 1
	return RGB{
		R: uint8((uint16(c.R) * f) >> 8),
		G: uint8((uint16(c.G) * f) >> 8),
		B: uint8((uint16(c.B) * f) >> 8),
	}
}

// Scale8Video scales i but never rounds a nonzero value down to zero
// unless scale is zero.
func Scale8Video(i, scale uint8) uint8 {
	v := uint8((uint16(i) * uint16(scale)) >> 8)
	if i != 0 && scale != 0 {
		v++
	}
	return v
}

// Interpolate blends c1 into c2; alpha 0 yields c1 and 255 yields c2.
func Interpolate(c1, c2 RGB, alpha uint8) RGB {
	a := uint16(alpha)
	na := 255 - a
	mix := func(x, y uint8) uint8 {
		return uint8((uint16(x)*na + uint16(y)*a) / 255)
	}
	return RGB{mix(c1.R, c2.R), mix(c1.G, c2.G), mix(c1.B, c2.B)}
}

// AddSaturated adds two colors channel by channel, clamping at 255.
func AddSaturated(a, b RGB) RGB {
	add := func(x, y uint8) uint8 {
		s := uint16(x) + uint16(y)
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return RGB{add(a.R, b.R), add(a.G, b.G), add(a.B, b.B)}
}

// HeatColor maps a temperature onto a black→red→yellow→white ramp split
// into three bands of 64 steps.
func HeatColor(temperature uint8) RGB {
	t192 := Scale8Video(temperature, 191)
	ramp := (t192 & 0x3f) << 2

	switch {
	case t192&0x80 != 0:
		return RGB{255, 255, ramp}
	case t192&0x40 != 0:
		return RGB{255, ramp, 0}
	default:
		return RGB{ramp, 0, 0}
	}
}
