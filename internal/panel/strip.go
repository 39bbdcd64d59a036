package panel

import "fmt"

// Direction is the wiring direction of a strip relative to its physical order.
type Direction uint8

const (
	Reverse Direction = 0
	Forward Direction = 1
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// ParseDirection accepts the names and the numeric codes used by panel
// configuration documents (1 forward; 0 or -1 reverse).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "fwd", "1", "+1":
		return Forward, nil
	case "reverse", "rev", "0", "-1":
		return Reverse, nil
	}
	return Reverse, fmt.Errorf("panel: invalid direction %q", s)
}

// Strip is one physically contiguous run of pixels.
type Strip struct {
	Start     uint16
	Count     uint16
	Direction Direction
}

// End returns one past the last address of the strip.
func (s Strip) End() int { return int(s.Start) + int(s.Count) }

// Indices returns the strip's addresses in physical order: index 0 is the
// physically first pixel regardless of the wiring direction.
func (s Strip) Indices() []uint16 {
	idx := make([]uint16, s.Count)
	for j := range idx {
		if s.Direction == Forward {
			idx[j] = s.Start + uint16(j)
		} else {
			idx[j] = s.Start + s.Count - 1 - uint16(j)
		}
	}
	return idx
}

// TotalPixels returns the size of the address space covered by strips.
func TotalPixels(strips []Strip) int {
	total := 0
	for _, s := range strips {
		if s.End() > total {
			total = s.End()
		}
	}
	return total
}

// Longest returns the pixel count of the tallest strip.
func Longest(strips []Strip) int {
	longest := 0
	for _, s := range strips {
		if int(s.Count) > longest {
			longest = int(s.Count)
		}
	}
	return longest
}
