package anim

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// Kind is the width code of one parameter field.
type Kind byte

const (
	Uint8  Kind = 'B'
	Uint16 Kind = 'H'
	Uint32 Kind = 'I'
)

func (k Kind) Size() int {
	switch k {
	case Uint8:
		return 1
	case Uint16:
		return 2
	case Uint32:
		return 4
	}
	return 0
}

func (k Kind) Max() uint64 {
	return 1<<(8*uint(k.Size())) - 1
}

type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered field list of a parameter block.
type Schema []Field

// ParseSchema reads a comma separated list of name.K pairs. A colon is
// accepted in place of the dot.
func ParseSchema(s string) (Schema, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Schema{}, nil
	}
	parts := strings.Split(s, ",")
	schema := make(Schema, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		sep := strings.LastIndexAny(p, ".:")
		if sep <= 0 || sep != len(p)-2 {
			return nil, fmt.Errorf("%w: field %q", ErrBadSchema, p)
		}
		f := Field{Name: p[:sep], Kind: Kind(p[sep+1])}
		if f.Kind.Size() == 0 {
			return nil, fmt.Errorf("%w: width %q in field %q", ErrBadSchema, p[sep+1], p)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrBadSchema, f.Name)
		}
		seen[f.Name] = true
		schema = append(schema, f)
	}
	return schema, nil
}

func MustSchema(s string) Schema {
	schema, err := ParseSchema(s)
	if err != nil {
		panic(err)
	}
	return schema
}

func (s Schema) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = f.Name + "." + string(f.Kind)
	}
	return strings.Join(parts, ",")
}

// Size is the byte length of a complete block.
func (s Schema) Size() int {
	n := 0
	for _, f := range s {
		n += f.Kind.Size()
	}
	return n
}

func (s Schema) Has(name string) bool { return s.index(name) >= 0 }

// Decode reads a little-endian block. Fields past the end of a block that
// stops on a field boundary are left absent.
func (s Schema) Decode(block []byte) (Values, error) {
	v := make(Values, len(s))
	off := 0
	for _, f := range s {
		if off == len(block) {
			return v, nil
		}
		n := f.Kind.Size()
		if off+n > len(block) {
			return nil, &ParamError{Field: f.Name, Wrapped: ErrShortParams}
		}
		b := block[off : off+n]
		switch f.Kind {
		case Uint8:
			v[f.Name] = int(b[0])
		case Uint16:
			v[f.Name] = int(binary.LittleEndian.Uint16(b))
		case Uint32:
			v[f.Name] = int(binary.LittleEndian.Uint32(b))
		}
		off += n
	}
	if off != len(block) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadSchema, len(block)-off)
	}
	return v, nil
}

// Encode writes the present prefix of v. A field may only be absent if every
// later field is absent too.
func (s Schema) Encode(v Values) ([]byte, error) {
	if err := s.Validate(v); err != nil {
		return nil, err
	}
	out := make([]byte, 0, s.Size())
	gap := ""
	for _, f := range s {
		val, ok := v[f.Name]
		if !ok {
			if gap == "" {
				gap = f.Name
			}
			continue
		}
		if gap != "" {
			return nil, &ParamError{Field: f.Name, Wrapped: fmt.Errorf("%w: %q set but %q missing", ErrBadSchema, f.Name, gap)}
		}
		switch f.Kind {
		case Uint8:
			out = append(out, byte(val))
		case Uint16:
			out = binary.LittleEndian.AppendUint16(out, uint16(val))
		case Uint32:
			out = binary.LittleEndian.AppendUint32(out, uint32(val))
		}
	}
	return out, nil
}

// Validate checks that every value names a field of s and fits its width.
func (s Schema) Validate(v Values) error {
	for name, val := range v {
		i := s.index(name)
		if i < 0 {
			return &ParamError{Field: name, Wrapped: fmt.Errorf("%w: unknown field", ErrBadSchema)}
		}
		if val < 0 || uint64(val) > s[i].Kind.Max() {
			return &ParamError{Field: name, Wrapped: fmt.Errorf("%w: %d out of range", ErrBadSchema, val)}
		}
	}
	return nil
}

func (s Schema) index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Values holds decoded parameters by field name.
type Values map[string]int

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Get returns the named value, or def when it is absent.
func (v Values) Get(name string, def int) int {
	if x, ok := v[name]; ok {
		return x
	}
	return def
}

// Merge returns a copy of v overridden by o.
func (v Values) Merge(o Values) Values {
	out := make(Values, len(v)+len(o))
	for k, x := range v {
		out[k] = x
	}
	for k, x := range o {
		out[k] = x
	}
	return out
}

func (v Values) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, v[k])
	}
	return strings.Join(parts, " ")
}
