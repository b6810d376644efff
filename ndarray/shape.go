// SPDX-License-Identifier: MIT
// Package ndarray: shapes and broadcasting rules.
//
// Purpose:
//   - Provide the single source of truth for element counts and broadcasting.
//   - Keep every element-count computation in integer arithmetic; the empty
//     (scalar) shape holds exactly one element.
//
// Determinism & Performance:
//   - Broadcast and BroadcastIndex are pure; BroadcastIndex is O(n) in the
//     output size with an odometer walk (no per-element division).

package ndarray

import (
	"strconv"
	"strings"
)

const (
	opBroadcast      = "Broadcast"
	opBroadcastIndex = "BroadcastIndex"
	opNewShape       = "NewShape"
)

// Shape is a dimension tuple in row-major order. The empty Shape is a scalar.
// Treat Shape values as immutable; constructors and accessors return copies.
type Shape []int

// NewShape validates dims and returns them as a Shape.
// Returns ErrBadShape if any dimension is negative. Zero-sized dimensions are legal.
// Complexity: O(len(dims)).
func NewShape(dims ...int) (Shape, error) {
	s := make(Shape, len(dims))
	for i, d := range dims {
		if d < 0 {
			return nil, arrayErrorf(opNewShape, ErrBadShape)
		}
		s[i] = d
	}

	return s, nil
}

// Size returns the number of elements described by s.
// The empty shape yields 1, never 0: a scalar still owns one element.
// Complexity: O(len(s)).
func (s Shape) Size() int {
	n := 1 // integer identity for the product; () -> 1
	for _, d := range s {
		n *= d
	}

	return n
}

// NDim returns the number of dimensions.
func (s Shape) NDim() int { return len(s) }

// Equal reports whether s and o have identical dimensions.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of s. A nil or empty shape clones to Shape{}.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)

	return out
}

// String renders the shape as a tuple, e.g. "(2, 3)", "(4,)" or "()".
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, d := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	if len(s) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')

	return b.String()
}

// validate reports ErrBadShape for negative dimensions.
func (s Shape) validate() error {
	for _, d := range s {
		if d < 0 {
			return ErrBadShape
		}
	}

	return nil
}

// BroadcastsTo reports whether s can be stretched to target under the standard
// rules: align trailing dimensions; each aligned pair must be equal or s's side
// must be 1; s may not have more dimensions than target.
// Complexity: O(len(target)).
func (s Shape) BroadcastsTo(target Shape) bool {
	if len(s) > len(target) {
		return false
	}
	off := len(target) - len(s)
	for i, d := range s {
		if d != 1 && d != target[i+off] {
			return false
		}
	}

	return true
}

// Broadcast computes the common shape of all given shapes.
//
// Implementation:
//   - Stage 1: result rank = max rank of the inputs.
//   - Stage 2: per trailing-aligned axis, every non-1 size must agree.
//
// Returns ErrShapeMismatch when two sizes on one axis differ and neither is 1.
// Broadcast() with no arguments returns the scalar shape.
// Complexity: O(k * r) for k shapes of rank ≤ r.
func Broadcast(shapes ...Shape) (Shape, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	out := make(Shape, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := rank - len(s)
		for i, d := range s {
			cur := out[i+off]
			switch {
			case d == cur || d == 1:
				// keep current
			case cur == 1:
				out[i+off] = d
			default:
				return nil, arrayErrorf(opBroadcast+" "+s.String(), ErrShapeMismatch)
			}
		}
	}

	return out, nil
}

// BroadcastIndex returns, for every flat row-major position of target, the flat
// position in an array of shape from that broadcasting reads.
//
// Implementation:
//   - Stage 1: validate from.BroadcastsTo(target).
//   - Stage 2: compute per-axis strides of from (0 for stretched or missing axes).
//   - Stage 3: walk target with an odometer, accumulating the source offset.
//
// Errors: ErrShapeMismatch when from does not broadcast to target.
// Complexity: Time O(target.Size() amortized), Space O(target.Size()).
func BroadcastIndex(from, target Shape) ([]int, error) {
	if !from.BroadcastsTo(target) {
		return nil, arrayErrorf(opBroadcastIndex, ErrShapeMismatch)
	}
	n := target.Size()
	idx := make([]int, n)
	if n == 0 {
		return idx, nil
	}

	nd := len(target)
	strides := make([]int, nd)
	off := nd - len(from)
	step := 1
	for k := len(from) - 1; k >= 0; k-- {
		if from[k] != 1 {
			strides[k+off] = step
		}
		step *= from[k]
	}

	counter := make([]int, nd)
	pos := 0
	var d int
	for i := 0; i < n; i++ {
		idx[i] = pos
		// Advance the odometer from the innermost axis.
		for d = nd - 1; d >= 0; d-- {
			counter[d]++
			pos += strides[d]
			if counter[d] < target[d] {
				break
			}
			pos -= strides[d] * target[d]
			counter[d] = 0
		}
	}

	return idx, nil
}
