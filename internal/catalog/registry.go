// Package catalog maps animation names and wire ids to their parameter
// schema and constructor.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/effects"
	"github.com/san-kum/ledpanel/internal/panel"
)

// StopID is the wire id that stops the running animation.
const StopID = 255

type Factory func(topo *panel.Topology, v anim.Values, src anim.Source) (anim.Animation, error)

type Entry struct {
	Name        string
	ID          uint16
	Schema      anim.Schema
	Description string

	defaults func(*panel.Topology) anim.Values
	factory  Factory
}

// Defaults returns every parameter at its default for topo.
func (e *Entry) Defaults(topo *panel.Topology) anim.Values {
	return e.defaults(topo)
}

// Decode reads a parameter block for this animation.
func (e *Entry) Decode(block []byte) (anim.Values, error) {
	v, err := e.Schema.Decode(block)
	if err != nil {
		return nil, e.wrap(err)
	}
	return v, nil
}

// Encode writes v over the defaults as a full parameter block.
func (e *Entry) Encode(topo *panel.Topology, v anim.Values) ([]byte, error) {
	block, err := e.Schema.Encode(e.Defaults(topo).Merge(v))
	if err != nil {
		return nil, e.wrap(err)
	}
	return block, nil
}

// New validates v and builds an instance. Absent fields take defaults.
func (e *Entry) New(topo *panel.Topology, v anim.Values, src anim.Source) (anim.Animation, error) {
	if err := e.Schema.Validate(v); err != nil {
		return nil, e.wrap(err)
	}
	a, err := e.factory(topo, v, src)
	if err != nil {
		return nil, e.wrap(err)
	}
	return a, nil
}

func (e *Entry) wrap(err error) error {
	var pe *anim.ParamError
	if errors.As(err, &pe) {
		if pe.Animation == "" {
			pe.Animation = e.Name
		}
		return err
	}
	return &anim.ParamError{Animation: e.Name, Wrapped: err}
}

type Registry struct {
	byName map[string]*Entry
	byID   map[uint16]*Entry
}

func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Entry),
		byID:   make(map[uint16]*Entry),
	}

	r.mustRegister(Entry{
		Name: "colortest", ID: 0, Schema: effects.ColortestSchema,
		Description: "single pixel cycling red, green, blue through every address",
		defaults:    func(*panel.Topology) anim.Values { return effects.ColortestParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewColortest(t, effects.ColortestParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "sparkle", ID: 3, Schema: effects.SparkleSchema,
		Description: "random pixels in random hues over a fading panel",
		defaults:    func(*panel.Topology) anim.Values { return effects.SparkleParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewSparkle(t, effects.SparkleParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "fire", ID: 4, Schema: effects.FireSchema,
		Description: "per-strip heat simulation with sparks",
		defaults:    func(*panel.Topology) anim.Values { return effects.FireParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewFire(t, effects.FireParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "wave", ID: 5, Schema: effects.WaveSchema,
		Description: "rainbow scrolling along the wiring order",
		defaults:    func(*panel.Topology) anim.Values { return effects.WaveParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewWave(t, effects.WaveParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "hwave", ID: 11, Schema: effects.HorizontalWaveSchema,
		Description: "solid hue per strip rotating across the panel",
		defaults:    func(*panel.Topology) anim.Values { return effects.HorizontalWaveParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewHorizontalWave(t, effects.HorizontalWaveParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "randomwalk", ID: 12, Schema: effects.RandomWalkSchema,
		Description: "walker over the neighbour graph leaving a fading trail",
		defaults:    func(*panel.Topology) anim.Values { return effects.RandomWalkParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewRandomWalk(t, effects.RandomWalkParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "gameoflife", ID: 13, Schema: effects.GameOfLifeSchema,
		Description: "Conway's rules on the neighbour graph with aging hues",
		defaults:    func(*panel.Topology) anim.Values { return effects.GameOfLifeParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewGameOfLife(t, effects.GameOfLifeParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "digitalrain", ID: 14, Schema: effects.DigitalRainSchema,
		Description: "falling heads with fading tails on every strip",
		defaults: func(t *panel.Topology) anim.Values {
			return effects.DigitalRainParamsFrom(nil, t).Values()
		},
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewDigitalRain(t, effects.DigitalRainParamsFrom(v, t), s)
		},
	})
	r.mustRegister(Entry{
		Name: "metaballs", ID: 15, Schema: effects.MetaballsSchema,
		Description: "soft colored blobs drifting over the position matrix",
		defaults:    func(*panel.Topology) anim.Values { return effects.MetaballsParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewMetaballs(t, effects.MetaballsParamsFrom(v), s)
		},
	})
	r.mustRegister(Entry{
		Name: "worley", ID: 16, Schema: effects.WorleySchema,
		Description: "cellular noise around wandering feature points",
		defaults:    func(*panel.Topology) anim.Values { return effects.WorleyParamsFrom(nil).Values() },
		factory: func(t *panel.Topology, v anim.Values, s anim.Source) (anim.Animation, error) {
			return effects.NewWorley(t, effects.WorleyParamsFrom(v), s)
		},
	})

	return r
}

func (r *Registry) Register(e Entry) error {
	if e.factory == nil || e.defaults == nil {
		return fmt.Errorf("catalog: %s has no constructor", e.Name)
	}
	if e.ID == StopID {
		return fmt.Errorf("catalog: id %d is reserved for stop", StopID)
	}
	if _, ok := r.byName[e.Name]; ok {
		return fmt.Errorf("catalog: duplicate animation name %q", e.Name)
	}
	if _, ok := r.byID[e.ID]; ok {
		return fmt.Errorf("catalog: duplicate animation id %d", e.ID)
	}
	entry := e
	r.byName[e.Name] = &entry
	r.byID[e.ID] = &entry
	return nil
}

// NewEntry builds an entry for Register from a defaults function and a
// factory.
func NewEntry(name string, id uint16, schema anim.Schema, desc string, defaults func(*panel.Topology) anim.Values, f Factory) Entry {
	return Entry{Name: name, ID: id, Schema: schema, Description: desc, defaults: defaults, factory: f}
}

func (r *Registry) mustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (*Entry, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", anim.ErrUnknownAnimation, name)
	}
	return e, nil
}

func (r *Registry) ByID(id uint16) (*Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", anim.ErrUnknownAnimation, id)
	}
	return e, nil
}

// Create decodes block for the named animation and builds it.
func (r *Registry) Create(name string, block []byte, topo *panel.Topology, src anim.Source) (anim.Animation, error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	v, err := e.Decode(block)
	if err != nil {
		return nil, err
	}
	return e.New(topo, v, src)
}

// List returns every entry ordered by id.
func (r *Registry) List() []*Entry {
	out := make([]*Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for _, e := range r.List() {
		names = append(names, e.Name)
	}
	return names
}
