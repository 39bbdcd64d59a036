package playlist

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/config"
	"github.com/san-kum/ledpanel/internal/panel"
	"github.com/san-kum/ledpanel/internal/player"
)

const doc = `
name: evening
loop: false
entries:
  - animation: fire
    preset: embers
    duration: 0.5
  - animation: digitalrain
    params: {hue: 200}
    duration: 0.25
`

func newPlayer(t *testing.T) *player.Player {
	t.Helper()
	topo, err := panel.Build(config.DefaultStrips)
	if err != nil {
		t.Fatal(err)
	}
	return player.New(catalog.NewRegistry(), topo, anim.NewSource(3))
}

func TestParse(t *testing.T) {
	pl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pl.Name != "evening" || len(pl.Entries) != 2 {
		t.Fatalf("unexpected playlist %+v", pl)
	}
	if pl.Total() != 0.75 {
		t.Errorf("expected total 0.75, got %g", pl.Total())
	}

	v, err := pl.Entries[0].Values()
	if err != nil {
		t.Fatal(err)
	}
	if v.Get("cooling", 0) != 90 {
		t.Errorf("preset not applied: %v", v)
	}
	if err := pl.Validate(catalog.NewRegistry()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEntryParamsOverridePreset(t *testing.T) {
	e := Entry{Animation: "fire", Preset: "embers", Params: anim.Values{"cooling": 10}}
	v, err := e.Values()
	if err != nil {
		t.Fatal(err)
	}
	if v.Get("cooling", 0) != 10 || v.Get("sparking", 0) != 50 {
		t.Errorf("unexpected values %v", v)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"unknown animation", Entry{Animation: "plasma", Duration: 1}},
		{"unknown preset", Entry{Animation: "fire", Preset: "nope", Duration: 1}},
		{"zero duration", Entry{Animation: "fire"}},
		{"unknown field", Entry{Animation: "fire", Params: anim.Values{"speed": 1}, Duration: 1}},
		{"out of range", Entry{Animation: "fire", Params: anim.Values{"cooling": 300}, Duration: 1}},
	}

	reg := catalog.NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := &Playlist{Entries: []Entry{tt.entry}}
			if err := pl.Validate(reg); err == nil {
				t.Error("expected error")
			}
		})
	}

	if err := (&Playlist{}).Validate(reg); err == nil {
		t.Error("expected error for empty playlist")
	}
}

func TestRender(t *testing.T) {
	pl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	p := newPlayer(t)

	res, err := Render(context.Background(), p, pl, 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(res.Frames) != 15 {
		t.Errorf("expected 15 frames, got %d", len(res.Frames))
	}
	if len(res.Times) != len(res.Frames) {
		t.Fatalf("times %d frames %d", len(res.Times), len(res.Frames))
	}
	for i := 1; i < len(res.Times); i++ {
		if res.Times[i] <= res.Times[i-1] {
			t.Fatalf("times not increasing at %d: %v", i, res.Times[i-1:i+1])
		}
	}
	if p.Active() != "" {
		t.Errorf("player still running %s", p.Active())
	}
}

type frameCount struct{ n int }

func (c *frameCount) Name() string                    { return "frames" }
func (c *frameCount) Observe(f anim.Frame, t float64) { c.n++ }
func (c *frameCount) Value() float64                  { return float64(c.n) }
func (c *frameCount) Reset()                          { c.n = 0 }

func TestRenderKeepsMetricsOfEveryEntry(t *testing.T) {
	pl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	p := newPlayer(t)
	p.AddMetric(&frameCount{})

	res, err := Render(context.Background(), p, pl, 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := map[string]float64{
		"1.fire.frames":        10,
		"2.digitalrain.frames": 5,
		"frames":               (10*10 + 5*5) / 15.0,
	}
	for k, v := range want {
		if got, ok := res.Metrics[k]; !ok || math.Abs(got-v) > 1e-9 {
			t.Errorf("metric %s = %v (present %v), want %v", k, got, ok, v)
		}
	}
}

func TestRun(t *testing.T) {
	pl := &Playlist{Entries: []Entry{
		{Animation: "colortest", Duration: 0.05},
		{Animation: "sparkle", Duration: 0.05},
	}}
	p := newPlayer(t)

	var started []string
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Run(ctx, p, pl, 100, func(i int, e Entry) {
		started = append(started, e.Animation)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(started) != 2 || started[0] != "colortest" || started[1] != "sparkle" {
		t.Errorf("unexpected entry order %v", started)
	}
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	pl := &Playlist{Loop: true, Entries: []Entry{{Animation: "wave", Duration: 0.02}}}
	p := newPlayer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	passes := 0
	err := Run(ctx, p, pl, 100, func(int, Entry) { passes++ })
	if err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if passes < 2 {
		t.Errorf("expected the playlist to loop, got %d passes", passes)
	}
}
