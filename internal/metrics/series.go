package metrics

import (
	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/player"
)

// Names lists the per-frame series Series computes, in display order.
var Names = []string{"brightness", "lit", "change"}

// Series computes every per-frame measure over a recorded sequence.
func Series(frames []anim.Frame) map[string][]float64 {
	out := map[string][]float64{
		"brightness": make([]float64, len(frames)),
		"lit":        make([]float64, len(frames)),
		"change":     make([]float64, len(frames)),
	}
	var prev anim.Frame
	for i, f := range frames {
		out["brightness"][i] = Brightness(f)
		out["lit"][i] = Lit(f)
		if prev != nil {
			out["change"][i] = Change(prev, f)
		}
		prev = f
	}
	return out
}

// Default returns a fresh set of the standard frame metrics.
func Default() []player.Metric {
	return []player.Metric{
		NewMeanBrightness(),
		NewLitFraction(),
		NewChangeRate(),
	}
}
