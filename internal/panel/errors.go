package panel

import "errors"

var (
	// ErrEmpty indicates a descriptor set without strips.
	ErrEmpty = errors.New("panel: no strips")

	// ErrOverlap indicates two strips claiming the same pixel address.
	ErrOverlap = errors.New("panel: strips overlap")

	// ErrAddressRange indicates a strip extending past the 16-bit address space.
	ErrAddressRange = errors.New("panel: strip exceeds address space")
)
