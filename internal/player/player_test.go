package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/panel"
)

var testPanel = panel.MustBuild([]panel.Strip{
	{Start: 0, Count: 10, Direction: panel.Forward},
	{Start: 10, Count: 8, Direction: panel.Reverse},
	{Start: 18, Count: 10, Direction: panel.Forward},
})

func newPlayer() *Player {
	return New(catalog.NewRegistry(), testPanel, anim.NewSource(1))
}

type countSink struct {
	n   int
	err error
}

func (c *countSink) WriteFrame(f anim.Frame) error {
	c.n++
	return c.err
}

type countMetric struct {
	observed int
	lastT    float64
}

func (m *countMetric) Name() string                    { return "count" }
func (m *countMetric) Observe(f anim.Frame, t float64) { m.observed++; m.lastT = t }
func (m *countMetric) Value() float64                  { return float64(m.observed) }
func (m *countMetric) Reset()                          { m.observed = 0 }

func TestIdleStepIsBlack(t *testing.T) {
	p := newPlayer()
	f := p.Step(0.1)
	if len(f) != testPanel.TotalPixels() || f.Lit() != 0 {
		t.Errorf("idle frame: len %d lit %d", len(f), f.Lit())
	}
	if p.Active() != "" {
		t.Errorf("Active = %q", p.Active())
	}
}

func TestStartAndStop(t *testing.T) {
	p := newPlayer()
	if err := p.StartValues("hwave", anim.Values{"delay_ms": 0}); err != nil {
		t.Fatalf("StartValues: %v", err)
	}
	if p.Active() != "hwave" {
		t.Fatalf("Active = %q", p.Active())
	}
	if got := p.Params()["hue_step"]; got != 10 {
		t.Errorf("effective hue_step = %d, want default 10", got)
	}
	if p.Step(0.01).Lit() == 0 {
		t.Error("hwave produced a dark frame")
	}
	p.Stop()
	if p.Active() != "" || p.Step(0.01).Lit() != 0 {
		t.Error("stopped player still drawing")
	}
}

func TestBadParamsKeepPreviousAnimation(t *testing.T) {
	p := newPlayer()
	if err := p.Start("fire", nil); err != nil {
		t.Fatalf("Start fire: %v", err)
	}

	tests := []struct {
		name  string
		block []byte
		want  error
	}{
		{"metaballs", []byte{1}, anim.ErrShortParams},
		{"worley", make([]byte, 20), anim.ErrBadSchema},
		{"plasma", nil, anim.ErrUnknownAnimation},
	}
	for _, tt := range tests {
		if err := p.Start(tt.name, tt.block); !errors.Is(err, tt.want) {
			t.Errorf("Start(%s) err = %v, want %v", tt.name, err, tt.want)
		}
		if p.Active() != "fire" {
			t.Fatalf("Active = %q after rejected %s", p.Active(), tt.name)
		}
	}
}

func TestStartID(t *testing.T) {
	p := newPlayer()
	if err := p.StartID(14, nil); err != nil {
		t.Fatalf("StartID: %v", err)
	}
	if p.Active() != "digitalrain" {
		t.Errorf("Active = %q", p.Active())
	}
	if err := p.StartID(catalog.StopID, nil); err != nil {
		t.Fatalf("StartID(stop): %v", err)
	}
	if p.Active() != "" {
		t.Errorf("Active after stop = %q", p.Active())
	}
	if err := p.StartID(99, nil); !errors.Is(err, anim.ErrUnknownAnimation) {
		t.Errorf("unknown id err = %v", err)
	}
}

func TestRunFrames(t *testing.T) {
	p := newPlayer()
	sink := &countSink{}
	m := &countMetric{}
	p.AddSink(sink)
	p.AddMetric(m)
	if err := p.StartValues("colortest", anim.Values{"delay_ms": 0}); err != nil {
		t.Fatal(err)
	}

	res, err := p.RunFrames(context.Background(), 6, 0.01)
	if err != nil {
		t.Fatalf("RunFrames: %v", err)
	}
	if len(res.Frames) != 6 || sink.n != 6 || res.Metrics["count"] != 6 {
		t.Errorf("frames %d sink %d metric %v", len(res.Frames), sink.n, res.Metrics)
	}
	if res.Frames[0].Equal(res.Frames[1]) {
		t.Error("recorded frames share storage or did not advance")
	}
	if res.Animation != "colortest" {
		t.Errorf("Animation = %q", res.Animation)
	}
}

func TestRunFramesSinkError(t *testing.T) {
	p := newPlayer()
	boom := errors.New("boom")
	p.AddSink(&countSink{err: boom})
	_, err := p.RunFrames(context.Background(), 3, 0.01)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	p := newPlayer()
	sink := &countSink{}
	p.AddSink(sink)
	_ = p.Start("sparkle", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := p.Run(ctx, 100)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run err = %v", err)
	}
	if sink.n == 0 {
		t.Error("no frames delivered")
	}
}

func TestRunRejectsBadFPS(t *testing.T) {
	if err := newPlayer().Run(context.Background(), 0); err == nil {
		t.Error("fps 0 accepted")
	}
}

func TestBench(t *testing.T) {
	reg := catalog.NewRegistry()
	res, err := Bench(context.Background(), reg, testPanel, BenchConfig{Frames: 50, Workers: 3})
	if err != nil {
		t.Fatalf("Bench: %v", err)
	}
	if len(res) != len(reg.Names()) {
		t.Fatalf("got %d results", len(res))
	}
	for i, r := range res {
		if r.Name != reg.Names()[i] || r.Frames != 50 {
			t.Errorf("result %d = %+v", i, r)
		}
	}

	if _, err := Bench(context.Background(), reg, testPanel, BenchConfig{Names: []string{"nope"}, Frames: 1}); !errors.Is(err, anim.ErrUnknownAnimation) {
		t.Errorf("unknown name err = %v", err)
	}
}

func TestStartWhileRunning(t *testing.T) {
	p := newPlayer()
	p.AddMetric(&countMetric{})
	sink := &countSink{}
	p.AddSink(sink)
	if err := p.Start("sparkle", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 1000) }()

	ids := []uint16{12, 3, 13, 16, catalog.StopID}
	for i := 0; i < 2000; i++ {
		if err := p.StartID(ids[i%len(ids)], nil); err != nil {
			t.Fatalf("StartID %d: %v", ids[i%len(ids)], err)
		}
		_ = p.Params()
		if i%100 == 0 {
			time.Sleep(time.Millisecond)
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v", err)
	}
	if sink.n == 0 {
		t.Error("no frames delivered")
	}
}
