package wire

import "github.com/san-kum/ledpanel/internal/anim"

// Ranges run-length encodes the pixels of cur that differ from prev. Runs
// of equal color become one range. A nil prev, or one of a different
// length, sends every pixel.
func Ranges(prev, cur anim.Frame) []Range {
	full := len(prev) != len(cur)
	var out []Range
	for i := 0; i < len(cur); {
		if !full && prev[i] == cur[i] {
			i++
			continue
		}
		j := i + 1
		for j < len(cur) && cur[j] == cur[i] && (full || prev[j] != cur[j]) && j-i < 0xffff {
			j++
		}
		out = append(out, Range{Color: cur[i], Start: uint16(i), Count: uint16(j - i)})
		i = j
	}
	return out
}

// EncodeFrame turns the difference between two frames into set commands of
// at most MaxRanges ranges each. Only the last command asks the controller
// to refresh. An unchanged frame yields no commands.
func EncodeFrame(prev, cur anim.Frame) []Command {
	ranges := Ranges(prev, cur)
	if len(ranges) == 0 {
		return nil
	}
	cmds := make([]Command, 0, (len(ranges)+MaxRanges-1)/MaxRanges)
	for len(ranges) > 0 {
		n := min(len(ranges), MaxRanges)
		cmds = append(cmds, SetCommand(ranges[:n], false))
		ranges = ranges[n:]
	}
	cmds[len(cmds)-1].Refresh = true
	return cmds
}

// Apply paints the ranges of a set command into f, clipping at its end.
func Apply(f anim.Frame, c Command) {
	for _, r := range c.Ranges {
		end := int(r.Start) + int(r.Count)
		if end > len(f) {
			end = len(f)
		}
		for i := int(r.Start); i < end; i++ {
			f[i] = r.Color
		}
	}
}
