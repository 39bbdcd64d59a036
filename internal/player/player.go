// Package player owns the running animation: it starts and stops variants,
// steps the active one and fans its frames out to sinks and metrics.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/debug"
	"github.com/san-kum/ledpanel/internal/panel"
)

type Player struct {
	mu sync.Mutex

	reg  *catalog.Registry
	topo *panel.Topology
	src  anim.Source

	active anim.Animation
	entry  *catalog.Entry
	params anim.Values
	idle   anim.Frame

	sinks   []Sink
	metrics []Metric
	t       float64
}

func New(reg *catalog.Registry, topo *panel.Topology, src anim.Source) *Player {
	return &Player{
		reg:  reg,
		topo: topo,
		src:  src,
		idle: anim.NewFrame(topo.TotalPixels()),
	}
}

func (p *Player) AddSink(s Sink)     { p.sinks = append(p.sinks, s) }
func (p *Player) AddMetric(m Metric) { p.metrics = append(p.metrics, m) }

func (p *Player) Topology() *panel.Topology { return p.topo }

func (p *Player) Registry() *catalog.Registry { return p.reg }

// Start decodes block for the named animation and replaces the running one.
// On any error the previous animation keeps running.
func (p *Player) Start(name string, block []byte) error {
	e, err := p.reg.Get(name)
	if err != nil {
		debug.Log("player", "rejected %s: %v", name, err)
		return err
	}
	v, err := e.Decode(block)
	if err != nil {
		debug.Log("player", "rejected %s: %v", name, err)
		return err
	}
	return p.start(e, v)
}

// StartID is Start addressed by wire id. The stop id stops playback.
func (p *Player) StartID(id uint16, block []byte) error {
	if id == catalog.StopID {
		p.Stop()
		return nil
	}
	e, err := p.reg.ByID(id)
	if err != nil {
		debug.Log("player", "rejected id %d: %v", id, err)
		return err
	}
	return p.Start(e.Name, block)
}

// StartValues starts an animation from already decoded values.
func (p *Player) StartValues(name string, v anim.Values) error {
	e, err := p.reg.Get(name)
	if err != nil {
		debug.Log("player", "rejected %s: %v", name, err)
		return err
	}
	return p.start(e, v)
}

// start holds mu across construction: factories draw from p.src, which the
// running animation shares.
func (p *Player) start(e *catalog.Entry, v anim.Values) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := e.New(p.topo, v, p.src)
	if err != nil {
		debug.Log("player", "rejected %s: %v", e.Name, err)
		return err
	}
	p.active, p.entry = a, e
	p.params = e.Defaults(p.topo).Merge(v)
	p.t = 0
	for _, m := range p.metrics {
		m.Reset()
	}
	debug.Log("player", "started %s %s", e.Name, p.params)
	return nil
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		debug.Log("player", "stopped %s", p.entry.Name)
	}
	p.active, p.entry, p.params = nil, nil, nil
}

// Active returns the name of the running animation, or "" when idle.
func (p *Player) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.entry == nil {
		return ""
	}
	return p.entry.Name
}

// Params returns the effective parameters of the running animation.
func (p *Player) Params() anim.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params.Merge(nil)
}

// Step advances the active animation by dt seconds. An idle player returns
// a black frame.
func (p *Player) Step(dt float64) anim.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.t += dt
	f := p.idle
	if p.active != nil {
		f = p.active.Step(dt)
	}
	for _, m := range p.metrics {
		m.Observe(f, p.t)
	}
	return f
}

func (p *Player) deliver(f anim.Frame) error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.WriteFrame(f); err != nil {
			debug.Log("player", "sink write failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run steps in real time at fps until ctx is done, using measured wall time
// as dt. It returns the first sink failure, or ctx.Err().
func (p *Player) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := p.deliver(p.Step(dt)); err != nil {
				return fmt.Errorf("deliver frame: %w", err)
			}
			debug.LogEvery(fps*10, "player", "%s running", p.Active())
		}
	}
}

// RunFrames steps n frames of dt seconds as fast as possible and keeps a
// copy of each.
func (p *Player) RunFrames(ctx context.Context, n int, dt float64) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", n)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}

	res := &Result{
		Animation: p.Active(),
		Params:    p.Params(),
		Frames:    make([]anim.Frame, 0, n),
		Times:     make([]float64, 0, n),
		Metrics:   make(map[string]float64),
	}
	t := 0.0
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		f := p.Step(dt)
		t += dt
		res.Frames = append(res.Frames, f.Clone())
		res.Times = append(res.Times, t)
		if err := p.deliver(f); err != nil {
			return res, fmt.Errorf("deliver frame %d: %w", i, err)
		}
	}
	for _, m := range p.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}
