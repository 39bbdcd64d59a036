// Package playlist runs a scripted sequence of animations, each for a fixed
// duration.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/config"
	"github.com/san-kum/ledpanel/internal/debug"
	"github.com/san-kum/ledpanel/internal/player"
)

// Playlist is a named sequence of entries played back to back.
type Playlist struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Loop        bool    `yaml:"loop"`
	Entries     []Entry `yaml:"entries"`
}

// Entry plays one animation for Duration seconds. Params override the
// named preset, which overrides the animation's defaults.
type Entry struct {
	Animation string      `yaml:"animation"`
	Preset    string      `yaml:"preset"`
	Params    anim.Values `yaml:"params"`
	Duration  float64     `yaml:"duration"`
}

// Values returns the parameters the entry starts its animation with.
func (e Entry) Values() (anim.Values, error) {
	var v anim.Values
	if e.Preset != "" {
		v = config.GetPreset(e.Animation, e.Preset)
		if v == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", e.Animation, e.Preset)
		}
	}
	return v.Merge(e.Params), nil
}

func Load(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Playlist, error) {
	var pl Playlist
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// Validate checks every entry against reg before anything is played.
func (pl *Playlist) Validate(reg *catalog.Registry) error {
	if len(pl.Entries) == 0 {
		return errors.New("playlist has no entries")
	}
	for i, e := range pl.Entries {
		if e.Duration <= 0 {
			return fmt.Errorf("entry %d: duration must be positive, got %g", i+1, e.Duration)
		}
		ent, err := reg.Get(e.Animation)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		v, err := e.Values()
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := ent.Schema.Validate(v); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

// Total returns the playing time of one pass in seconds.
func (pl *Playlist) Total() float64 {
	total := 0.0
	for _, e := range pl.Entries {
		total += e.Duration
	}
	return total
}

// Run plays the entries in real time on p at fps. A looping playlist runs
// until ctx is done; otherwise Run returns nil after the last entry.
// onEntry, when set, is called as each entry starts.
func Run(ctx context.Context, p *player.Player, pl *Playlist, fps int, onEntry func(i int, e Entry)) error {
	if err := pl.Validate(p.Registry()); err != nil {
		return err
	}
	for {
		for i, e := range pl.Entries {
			if err := start(p, pl, i); err != nil {
				return err
			}
			if onEntry != nil {
				onEntry(i, e)
			}

			entryCtx, cancel := context.WithTimeout(ctx, seconds(e.Duration))
			err := p.Run(entryCtx, fps)
			cancel()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
		}
		if !pl.Loop {
			p.Stop()
			return nil
		}
	}
}

// Render steps one pass of the playlist offline with a fixed dt and
// returns the concatenated result.
func Render(ctx context.Context, p *player.Player, pl *Playlist, dt float64) (*player.Result, error) {
	if err := pl.Validate(p.Registry()); err != nil {
		return nil, err
	}
	out := &player.Result{
		Animation: pl.Name,
		Metrics:   make(map[string]float64),
	}
	offset := 0.0
	sums := make(map[string]float64)
	for i, e := range pl.Entries {
		if err := start(p, pl, i); err != nil {
			return out, err
		}
		n := int(math.Round(e.Duration / dt))
		if n < 1 {
			n = 1
		}
		res, err := p.RunFrames(ctx, n, dt)
		if res != nil {
			out.Frames = append(out.Frames, res.Frames...)
			for _, t := range res.Times {
				out.Times = append(out.Times, offset+t)
			}
			for k, v := range res.Metrics {
				out.Metrics[EntryMetric(i, e.Animation, k)] = v
				sums[k] += v * float64(len(res.Frames))
			}
		}
		if err != nil {
			return out, fmt.Errorf("entry %d: %w", i+1, err)
		}
		offset += float64(n) * dt
	}
	for k, sum := range sums {
		out.Metrics[k] = sum / float64(len(out.Frames))
	}
	p.Stop()
	return out, nil
}

// EntryMetric names the per-entry copy of a metric in a rendered playlist,
// e.g. "2.digitalrain.brightness". Unprefixed names hold the frame-weighted
// mean over the whole playlist.
func EntryMetric(i int, animation, metric string) string {
	return fmt.Sprintf("%d.%s.%s", i+1, animation, metric)
}

func start(p *player.Player, pl *Playlist, i int) error {
	e := pl.Entries[i]
	v, err := e.Values()
	if err != nil {
		return fmt.Errorf("entry %d: %w", i+1, err)
	}
	if err := p.StartValues(e.Animation, v); err != nil {
		return fmt.Errorf("entry %d: %w", i+1, err)
	}
	debug.Log("playlist", "entry %d/%d: %s for %gs", i+1, len(pl.Entries), e.Animation, e.Duration)
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
