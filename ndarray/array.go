// SPDX-License-Identifier: MIT

// Package ndarray - Array storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer tagged with an arbitrary-rank Shape.
//   - Guarantee safety at the public surface: At/Index/Item return errors instead of panicking.
//   - Keep arrays immutable so values built on top of them can be shared freely.
//
// AI-Hints:
//   - Use Flat(k) in hot loops once k is known to be in range; it indexes the buffer directly.
//   - Use Index(i) to peel the first axis (e.g. to split samples).
//
// Complexity quicksheet:
//   - New: O(n) copy; At: O(rank); Flat: O(1); Index: O(n/shape[0]); Clone: O(n).

package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxNew      = "New"
	ctxAt       = "At"
	ctxIndex    = "Index"
	ctxItem     = "Item"
	ctxGenerate = "Generate"
	ctxFromRows = "FromRows"
)

// Array is an immutable n-dimensional float64 array.
//   - shape holds the dimensions (empty for scalars).
//   - data is a flat buffer of length shape.Size() in row-major order.
type Array struct {
	shape Shape     // dimensions; never mutated after construction
	data  []float64 // contiguous row-major storage (len == shape.Size())
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Array)(nil)

// New creates an array of the given shape from a copy of data.
//
// Implementation:
//   - Stage 1: validate shape (no negative dims).
//   - Stage 2: require len(data) == shape.Size().
//   - Stage 3: copy data into a fresh buffer.
//
// Errors: ErrBadShape, ErrDataLength.
// Complexity: Time O(n), Space O(n).
func New(shape Shape, data []float64) (*Array, error) {
	if err := shape.validate(); err != nil {
		return nil, arrayErrorf(ctxNew, err)
	}
	if len(data) != shape.Size() {
		return nil, arrayErrorf(ctxNew, ErrDataLength)
	}
	buf := make([]float64, len(data))
	copy(buf, data)

	return &Array{shape: shape.Clone(), data: buf}, nil
}

// Zeros returns a zero-filled array of the given shape.
// Errors: ErrBadShape.
func Zeros(shape Shape) (*Array, error) {
	if err := shape.validate(); err != nil {
		return nil, arrayErrorf(ctxNew, err)
	}

	return zeros(shape), nil
}

// Full returns an array of the given shape with every element set to v.
// Errors: ErrBadShape.
func Full(shape Shape, v float64) (*Array, error) {
	if err := shape.validate(); err != nil {
		return nil, arrayErrorf(ctxNew, err)
	}

	return full(shape, v), nil
}

// Generate builds an array by evaluating f at every flat row-major position.
// Errors: ErrBadShape.
// Complexity: O(n) calls of f.
func Generate(shape Shape, f func(k int) float64) (*Array, error) {
	if err := shape.validate(); err != nil {
		return nil, arrayErrorf(ctxGenerate, err)
	}
	out := zeros(shape)
	for k := range out.data {
		out.data[k] = f(k)
	}

	return out, nil
}

// Scalar returns a 0-dimensional array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, data: []float64{v}}
}

// Vector returns a 1-dimensional array holding a copy of vals.
func Vector(vals ...float64) *Array {
	buf := make([]float64, len(vals))
	copy(buf, vals)

	return &Array{shape: Shape{len(vals)}, data: buf}
}

// FromRows builds a 2-dimensional array from equal-length rows.
// Errors: ErrDataLength when rows are ragged.
func FromRows(rows [][]float64) (*Array, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	buf := make([]float64, 0, len(rows)*cols)
	for _, r := range rows {
		if len(r) != cols {
			return nil, arrayErrorf(ctxFromRows, ErrDataLength)
		}
		buf = append(buf, r...)
	}

	return &Array{shape: Shape{len(rows), cols}, data: buf}, nil
}

// zeros is the internal constructor for already-validated shapes.
func zeros(shape Shape) *Array {
	return &Array{shape: shape.Clone(), data: make([]float64, shape.Size())}
}

// full is the internal constructor for already-validated shapes.
func full(shape Shape, v float64) *Array {
	out := zeros(shape)
	for k := range out.data {
		out.data[k] = v
	}

	return out
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the number of elements.
func (a *Array) Size() int { return len(a.data) }

// Flat returns the k-th element in row-major order.
// It panics if k is out of range, like slice indexing; use At for checked access.
func (a *Array) Flat(k int) float64 { return a.data[k] }

// Data returns a copy of the flat row-major buffer.
func (a *Array) Data() []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)

	return out
}

// Item returns the only element of a single-element array.
// Errors: ErrNotScalar when Size() != 1.
func (a *Array) Item() (float64, error) {
	if len(a.data) != 1 {
		return 0, arrayErrorf(ctxItem, ErrNotScalar)
	}

	return a.data[0], nil
}

// At returns the element at the given multi-index.
//
// Implementation:
//   - Stage 1: require len(idx) == NDim().
//   - Stage 2: bounds-check each coordinate and fold into a row-major offset.
//
// Errors: ErrOutOfRange for a wrong index rank or any coordinate out of bounds.
// Complexity: O(rank).
func (a *Array) At(idx ...int) (float64, error) {
	if len(idx) != len(a.shape) {
		return 0, arrayErrorf(ctxAt, ErrOutOfRange)
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			return 0, arrayErrorf(ctxAt, ErrOutOfRange)
		}
		off = off*a.shape[d] + i
	}

	return a.data[off], nil
}

// Index returns the sub-array a[i] obtained by fixing the first axis.
// The result has shape a.Shape()[1:] and an independent buffer.
// Errors: ErrOutOfRange for scalars or i outside [0, shape[0]).
// Complexity: O(n / shape[0]).
func (a *Array) Index(i int) (*Array, error) {
	if len(a.shape) == 0 || i < 0 || i >= a.shape[0] {
		return nil, arrayErrorf(ctxIndex, ErrOutOfRange)
	}
	sub := a.shape[1:].Clone()
	n := sub.Size()
	buf := make([]float64, n)
	copy(buf, a.data[i*n:(i+1)*n])

	return &Array{shape: sub, data: buf}, nil
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	buf := make([]float64, len(a.data))
	copy(buf, a.data)

	return &Array{shape: a.shape.Clone(), data: buf}
}

// Equal reports whether a and b have the same shape and bitwise-equal elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.shape.Equal(b.shape) {
		return false
	}
	for k := range a.data {
		if a.data[k] != b.data[k] {
			return false
		}
	}

	return true
}

// AllClose reports whether a and b share a shape and every pair of elements
// differs by at most atol + rtol*|b|.
func (a *Array) AllClose(b *Array, rtol, atol float64) bool {
	if a == nil || b == nil || !a.shape.Equal(b.shape) {
		return false
	}
	for k := range a.data {
		if math.Abs(a.data[k]-b.data[k]) > atol+rtol*math.Abs(b.data[k]) {
			return false
		}
	}

	return true
}

// String renders the array with nested brackets, e.g. "[[1, 2], [3, 4]]" or "5".
func (a *Array) String() string {
	if len(a.shape) == 0 {
		return fmt.Sprintf("%g", a.data[0])
	}
	var b strings.Builder
	writeNested(&b, a.shape, a.data)

	return b.String()
}

// writeNested prints data for shape recursively along the first axis.
func writeNested(b *strings.Builder, shape Shape, data []float64) {
	b.WriteByte('[')
	if len(shape) == 1 {
		for i, v := range data {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%g", v)
		}
		b.WriteByte(']')
		return
	}
	step := shape[1:].Size()
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNested(b, shape[1:], data[i*step:(i+1)*step])
	}
	b.WriteByte(']')
}
