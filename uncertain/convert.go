// SPDX-License-Identifier: MIT

package uncertain

import (
	"iter"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
)

const (
	opFrom    = "From"
	opSamples = "Samples"
)

// Convertible is anything that can become a Value. Plain data is lifted
// (one fresh source per element); a *Value converts to itself.
type Convertible interface {
	ToValue(alloc *source.Allocator) (*Value, error)
}

// ToValue returns v unchanged: converting a Value is the identity.
func (v *Value) ToValue(_ *source.Allocator) (*Value, error) {
	if v == nil {
		return nil, uncertainErrorf(opFrom, ErrNilValue)
	}

	return v, nil
}

// Float is a plain scalar; it converts by Lift.
type Float float64

// ToValue lifts f into a scalar Value with one fresh unit source.
func (f Float) ToValue(alloc *source.Allocator) (*Value, error) {
	return Lift(alloc, ndarray.Scalar(float64(f)))
}

// Floats is a plain vector; it converts by Lift.
type Floats []float64

// ToValue lifts fs into a vector Value with one fresh unit source per element.
func (fs Floats) ToValue(alloc *source.Allocator) (*Value, error) {
	return Lift(alloc, ndarray.Vector(fs...))
}

// plainArray adapts an *ndarray.Array to Convertible.
type plainArray struct{ a *ndarray.Array }

func (p plainArray) ToValue(alloc *source.Allocator) (*Value, error) {
	return Lift(alloc, p.a)
}

// Plain wraps an array so it converts by Lift.
func Plain(a *ndarray.Array) Convertible { return plainArray{a: a} }

// From converts c into a Value. A nil c yields ErrNilValue.
func From(alloc *source.Allocator, c Convertible) (*Value, error) {
	if c == nil {
		return nil, uncertainErrorf(opFrom, ErrNilValue)
	}

	return c.ToValue(alloc)
}

// Items returns a restartable sequence over xs.
func Items(xs ...Convertible) iter.Seq[Convertible] {
	return func(yield func(Convertible) bool) {
		for _, x := range xs {
			if !yield(x) {
				return
			}
		}
	}
}

// Values returns a restartable sequence over vs.
func Values(vs ...*Value) iter.Seq[Convertible] {
	return func(yield func(Convertible) bool) {
		for _, v := range vs {
			if !yield(v) {
				return
			}
		}
	}
}

// Samples treats the first axis of v as the sample axis and returns the
// sequence v[0], v[1], ... . Every sample keeps v's source identities.
// Errors: ErrNilValue, ErrNoSamples for 0-dimensional values.
func Samples(v *Value) (iter.Seq[Convertible], error) {
	if v == nil {
		return nil, uncertainErrorf(opSamples, ErrNilValue)
	}
	if v.nominal.NDim() == 0 {
		return nil, uncertainErrorf(opSamples, ErrNoSamples)
	}
	n := v.nominal.Shape()[0]

	return func(yield func(Convertible) bool) {
		for i := 0; i < n; i++ {
			s, _ := v.Index(i) // i is in range by construction
			if !yield(s) {
				return
			}
		}
	}, nil
}
