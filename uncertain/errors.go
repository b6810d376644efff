// SPDX-License-Identifier: MIT
// Package uncertain: sentinel error set.
// Every operation returns these sentinels wrapped with an operation tag;
// callers match them via errors.Is. Nothing is retried and no partial
// value is ever returned alongside an error.

package uncertain

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/uncertain/ndarray"
)

var (
	// ErrShapeMismatch indicates operand shapes cannot broadcast together.
	// It is the ndarray sentinel, so errors.Is matches either name.
	ErrShapeMismatch = ndarray.ErrShapeMismatch

	// ErrEmptyAggregation indicates Mean or Representative was given no items.
	ErrEmptyAggregation = errors.New("uncertain: aggregation over an empty sequence")

	// ErrNilValue indicates a nil *Value or nil nominal array was supplied.
	ErrNilValue = errors.New("uncertain: nil value")

	// ErrNilAllocator indicates a nil *source.Allocator where new sources must be created.
	ErrNilAllocator = errors.New("uncertain: nil allocator")

	// ErrBadUncertainty indicates a negative, NaN or infinite uncertainty magnitude.
	ErrBadUncertainty = errors.New("uncertain: uncertainty must be finite and non-negative")

	// ErrWeightCount indicates explicit weights do not match the number of items.
	ErrWeightCount = errors.New("uncertain: weight count does not match item count")

	// ErrBadWeight indicates a negative or non-finite weight, or weights summing to zero.
	ErrBadWeight = errors.New("uncertain: invalid weight")

	// ErrNoSamples indicates Samples was called on a 0-dimensional value.
	ErrNoSamples = errors.New("uncertain: scalar value has no sample axis")
)

// uncertainErrorf wraps err with an operation tag, preserving the sentinel.
func uncertainErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
