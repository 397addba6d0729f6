package inventory

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by id or name matches nothing.
var ErrNotFound = errors.New("inventory item not found")

// ErrCodeSpaceExhausted means the generator ran out of fresh ids or barcodes for a prefix.
var ErrCodeSpaceExhausted = errors.New("inventory code space exhausted")

// ErrEmptyPalette is returned when face colors are requested from an empty palette.
var ErrEmptyPalette = errors.New("color palette is empty")

// ParseError pins a decoding failure to a line and column of the input file.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
