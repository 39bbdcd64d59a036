package catalog

import (
	"errors"
	"testing"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/panel"
)

var testPanel = panel.MustBuild([]panel.Strip{
	{Start: 0, Count: 12, Direction: panel.Forward},
	{Start: 12, Count: 10, Direction: panel.Reverse},
	{Start: 22, Count: 12, Direction: panel.Forward},
})

func TestRegistryIDs(t *testing.T) {
	r := NewRegistry()
	want := map[string]uint16{
		"colortest": 0, "sparkle": 3, "fire": 4, "wave": 5, "hwave": 11,
		"randomwalk": 12, "gameoflife": 13, "digitalrain": 14, "metaballs": 15, "worley": 16,
	}
	if got := len(r.List()); got != len(want) {
		t.Fatalf("List has %d entries, want %d", got, len(want))
	}
	for name, id := range want {
		e, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if e.ID != id {
			t.Errorf("%s id = %d, want %d", name, e.ID, id)
		}
		byID, err := r.ByID(id)
		if err != nil || byID.Name != name {
			t.Errorf("ByID(%d) = %v, %v", id, byID, err)
		}
	}

	ids := r.List()
	for i := 1; i < len(ids); i++ {
		if ids[i-1].ID >= ids[i].ID {
			t.Fatalf("List not ordered by id")
		}
	}
}

func TestUnknownAnimation(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("plasma"); !errors.Is(err, anim.ErrUnknownAnimation) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := r.ByID(StopID); !errors.Is(err, anim.ErrUnknownAnimation) {
		t.Errorf("ByID(stop) err = %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	e, _ := r.Get("fire")
	dup := NewEntry("fire2", e.ID, e.Schema, "", e.defaults, e.factory)
	if err := r.Register(dup); err == nil {
		t.Error("duplicate id accepted")
	}
	stop := NewEntry("halt", StopID, e.Schema, "", e.defaults, e.factory)
	if err := r.Register(stop); err == nil {
		t.Error("stop id accepted")
	}
}

func TestCreateEveryAnimationWithDefaults(t *testing.T) {
	r := NewRegistry()
	for _, e := range r.List() {
		t.Run(e.Name, func(t *testing.T) {
			block, err := e.Encode(testPanel, nil)
			if err != nil {
				t.Fatalf("Encode defaults: %v", err)
			}
			if len(block) != e.Schema.Size() {
				t.Errorf("block is %d bytes, want %d", len(block), e.Schema.Size())
			}
			a, err := r.Create(e.Name, block, testPanel, anim.NewSource(1))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if a.Name() != e.Name {
				t.Errorf("Name = %q", a.Name())
			}
			if f := a.Step(0.05); len(f) != testPanel.TotalPixels() {
				t.Errorf("frame length %d", len(f))
			}
		})
	}
}

func TestCreateWithEmptyBlockUsesDefaults(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create("digitalrain", nil, testPanel, anim.NewSource(1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestCreateRejectsBadBlocks(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name  string
		block []byte
		want  error
	}{
		{"fire", []byte{30}, anim.ErrShortParams},
		{"fire", []byte{30, 0, 55, 120, 0, 1}, anim.ErrBadSchema},
		{"nope", nil, anim.ErrUnknownAnimation},
	}
	for _, tt := range tests {
		_, err := r.Create(tt.name, tt.block, testPanel, anim.NewSource(1))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s %v: err = %v, want %v", tt.name, tt.block, err, tt.want)
		}
	}
}

func TestParamErrorNamesAnimation(t *testing.T) {
	r := NewRegistry()
	e, _ := r.Get("worley")
	_, err := e.New(testPanel, anim.Values{"num_features": 300}, anim.NewSource(1))
	var pe *anim.ParamError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParamError", err)
	}
	if pe.Animation != "worley" || pe.Field != "num_features" {
		t.Errorf("ParamError = %+v", pe)
	}
}

func TestDigitalRainDefaultsDependOnPanel(t *testing.T) {
	e, _ := NewRegistry().Get("digitalrain")
	d := e.Defaults(testPanel)
	if d["tail_len_max"] != 12 || d["tail_len_min"] != 4 {
		t.Errorf("defaults = %v", d)
	}
}
