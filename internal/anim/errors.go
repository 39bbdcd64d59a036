package anim

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAnimation = errors.New("anim: unknown animation")

	// ErrShortParams indicates a parameter block that ends inside a field.
	ErrShortParams = errors.New("anim: parameter block ends inside a field")

	// ErrBadSchema indicates a malformed schema string, trailing bytes in a
	// parameter block or a value too wide for its field.
	ErrBadSchema = errors.New("anim: parameter block does not match schema")

	ErrEmptyPanel  = errors.New("anim: panel has no pixels")
	ErrNoAnimation = errors.New("anim: no animation running")
)

// ParamError wraps a parameter failure with the animation and field it
// belongs to.
type ParamError struct {
	Animation string
	Field     string
	Wrapped   error
}

func (e *ParamError) Error() string {
	switch {
	case e.Animation != "" && e.Field != "":
		return fmt.Sprintf("%s.%s: %v", e.Animation, e.Field, e.Wrapped)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Wrapped)
	case e.Animation != "":
		return fmt.Sprintf("%s: %v", e.Animation, e.Wrapped)
	}
	return e.Wrapped.Error()
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
