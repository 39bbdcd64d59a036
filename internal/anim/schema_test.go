package anim

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema("delay_ms.H,n_mballs:B,seed.I")
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	want := Schema{{"delay_ms", Uint16}, {"n_mballs", Uint8}, {"seed", Uint32}}
	if len(s) != len(want) {
		t.Fatalf("got %d fields, want %d", len(s), len(want))
	}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("field %d = %+v, want %+v", i, s[i], want[i])
		}
	}
	if s.Size() != 7 {
		t.Errorf("Size = %d, want 7", s.Size())
	}
	if got := s.String(); got != "delay_ms.H,n_mballs.B,seed.I" {
		t.Errorf("String = %q", got)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	for _, in := range []string{"delay", "delay.Q", ".H", "a.B,a.H", "delay.HH"} {
		if _, err := ParseSchema(in); !errors.Is(err, ErrBadSchema) {
			t.Errorf("ParseSchema(%q) err = %v, want ErrBadSchema", in, err)
		}
	}
}

func TestDecode(t *testing.T) {
	s := MustSchema("delay_ms.H,hue.H,head_len.B")

	tests := []struct {
		name    string
		block   []byte
		want    Values
		wantErr error
	}{
		{"full", []byte{0x2c, 0x01, 120, 0, 3}, Values{"delay_ms": 300, "hue": 120, "head_len": 3}, nil},
		{"prefix", []byte{0x2c, 0x01}, Values{"delay_ms": 300}, nil},
		{"empty", nil, Values{}, nil},
		{"mid field", []byte{0x2c, 0x01, 120}, nil, ErrShortParams},
		{"trailing", []byte{0x2c, 0x01, 120, 0, 3, 9}, nil, ErrBadSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Decode(tt.block)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func TestDecodeShortNamesField(t *testing.T) {
	s := MustSchema("delay_ms.H,hue.H")
	_, err := s.Decode([]byte{1, 0, 7})
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Field != "hue" {
		t.Fatalf("err = %v, want ParamError on hue", err)
	}
}

func TestEncode(t *testing.T) {
	s := MustSchema("delay_ms.H,fade.B,seed.I")

	got, err := s.Encode(Values{"delay_ms": 300, "fade": 200, "seed": 0x01020304})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x2c, 0x01, 200, 4, 3, 2, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = %v, want %v", got, want)
	}

	back, err := s.Decode(got)
	if err != nil || back["seed"] != 0x01020304 {
		t.Errorf("Decode(Encode) = %v, %v", back, err)
	}

	if _, err := s.Encode(Values{"fade": 1}); !errors.Is(err, ErrBadSchema) {
		t.Errorf("gap: err = %v, want ErrBadSchema", err)
	}
	if _, err := s.Encode(Values{"delay_ms": 70000}); !errors.Is(err, ErrBadSchema) {
		t.Errorf("overflow: err = %v, want ErrBadSchema", err)
	}
	if _, err := s.Encode(Values{"bogus": 1}); !errors.Is(err, ErrBadSchema) {
		t.Errorf("unknown: err = %v, want ErrBadSchema", err)
	}
}

func TestValuesGetMerge(t *testing.T) {
	v := Values{"a": 1}
	if v.Get("a", 9) != 1 || v.Get("b", 9) != 9 {
		t.Errorf("Get defaults wrong: %v", v)
	}
	m := v.Merge(Values{"a": 2, "b": 3})
	if m["a"] != 2 || m["b"] != 3 || v["a"] != 1 {
		t.Errorf("Merge = %v, original %v", m, v)
	}
	if got := m.String(); got != "a=2 b=3" {
		t.Errorf("String = %q", got)
	}
}
