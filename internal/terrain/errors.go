package terrain

import "errors"

var (
	// ErrInvalidParameter reports a parameter that would make an operation
	// undefined, such as a non-positive carve width.
	ErrInvalidParameter = errors.New("terrain: invalid parameter")
	// ErrOutOfBounds reports a vertex index or point outside the grid.
	ErrOutOfBounds = errors.New("terrain: out of bounds")
)
