package export

import (
	"strings"
	"testing"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
	"github.com/san-kum/ledpanel/internal/panel"
)

func TestFrameToSVG(t *testing.T) {
	topo := panel.MustBuild([]panel.Strip{
		{Start: 0, Count: 3, Direction: panel.Forward},
		{Start: 4, Count: 2, Direction: panel.Reverse},
	})
	f := anim.NewFrame(topo.TotalPixels())
	f[0] = color.RGB{R: 255}
	f[3] = color.RGB{G: 255}

	svg := FrameToSVG(topo, f, 10)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if got := strings.Count(svg, "<circle"); got != 5 {
		t.Errorf("expected 5 pixels, got %d", got)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("lit pixel missing")
	}
	// address 3 is the gap between strips and is not drawn
	if strings.Contains(svg, `fill="#00ff00"`) {
		t.Error("unmapped address drawn")
	}
	if !strings.Contains(svg, `width="20" height="30"`) {
		t.Error("unexpected document size")
	}
}

func TestFrameToSVG_Empty(t *testing.T) {
	if FrameToSVG(nil, nil, 10) != "" {
		t.Error("expected empty output for nil topology")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   color.RGB
		want string
	}{
		{color.RGB{R: 255, G: 136}, "#ff8800"},
		{color.White, "#ffffff"},
		{color.Black, "#1a1a1a"},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSeriesToSVG(t *testing.T) {
	series := map[string][]float64{
		"brightness": {0, 10, 20, 15},
		"lit":        {0.1, 0.2, 0.3, 0.4},
		"change":     {0},
	}
	svg := SeriesToSVG(series, []string{"brightness", "lit", "change"}, 200, 100)
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if SeriesToSVG(map[string][]float64{"x": {1}}, []string{"x"}, 10, 10) != "" {
		t.Error("expected empty output for single point")
	}
}
