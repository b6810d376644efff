package format

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRule indicates an unknown alignment letter or a malformed rule string.
	ErrBadRule = errors.New("format: invalid alignment rule")

	// ErrBadDigits indicates a Policy with a negative or excessive digit count.
	ErrBadDigits = errors.New("format: digits out of range")

	// ErrColumnCount indicates rows whose width differs from the column count.
	ErrColumnCount = errors.New("format: cell count does not match column count")

	// ErrNilValue indicates a row without a value.
	ErrNilValue = errors.New("format: nil value")
)

// formatErrorf wraps err with an operation tag.
func formatErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
