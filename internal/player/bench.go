package player

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/panel"
)

type BenchConfig struct {
	Names  []string
	Frames int
	Dt     float64
	Seed   int64
	// Workers caps concurrent instances; zero means no limit.
	Workers int
}

type BenchResult struct {
	Name     string
	Frames   int
	Elapsed  time.Duration
	MeanLit  float64
	PerFrame time.Duration
}

func (r BenchResult) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Bench steps one independent instance per name concurrently. Each instance
// gets its own source seeded from cfg.Seed and its position; the topology is
// shared read-only.
func Bench(ctx context.Context, reg *catalog.Registry, topo *panel.Topology, cfg BenchConfig) ([]BenchResult, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", cfg.Frames)
	}
	if cfg.Dt <= 0 {
		cfg.Dt = 1.0 / 60
	}
	names := cfg.Names
	if len(names) == 0 {
		names = reg.Names()
	}

	entries := make([]*catalog.Entry, len(names))
	for i, name := range names {
		e, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}

	results := make([]BenchResult, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			a, err := e.New(topo, nil, anim.NewSource(cfg.Seed+int64(i)))
			if err != nil {
				return err
			}
			lit := 0
			start := time.Now()
			for n := 0; n < cfg.Frames; n++ {
				if n%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				lit += a.Step(cfg.Dt).Lit()
			}
			elapsed := time.Since(start)
			results[i] = BenchResult{
				Name:     e.Name,
				Frames:   cfg.Frames,
				Elapsed:  elapsed,
				MeanLit:  float64(lit) / float64(cfg.Frames),
				PerFrame: elapsed / time.Duration(cfg.Frames),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
