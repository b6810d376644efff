// SPDX-License-Identifier: MIT
// Package ndarray: sentinel error set.
// All constructors and kernels return these sentinels (possibly wrapped with an
// operation tag); callers match them via errors.Is.

package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a shape has a negative dimension.
	ErrBadShape = errors.New("ndarray: invalid shape")

	// ErrDataLength indicates that a data buffer does not hold exactly Shape.Size() values.
	ErrDataLength = errors.New("ndarray: data length does not match shape")

	// ErrShapeMismatch indicates that operand shapes cannot broadcast together.
	ErrShapeMismatch = errors.New("ndarray: shape mismatch")

	// ErrOutOfRange indicates that an index is outside valid bounds.
	ErrOutOfRange = errors.New("ndarray: index out of range")

	// ErrNilArray indicates that a nil *Array was passed where a value is required.
	ErrNilArray = errors.New("ndarray: nil array")

	// ErrNotScalar is returned by Item when the array holds more than one element.
	ErrNotScalar = errors.New("ndarray: array is not a single element")
)

// arrayErrorf wraps err with an operation tag, preserving the sentinel for errors.Is.
func arrayErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
