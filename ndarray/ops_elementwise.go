// SPDX-License-Identifier: MIT
// Package: ndarray
//
// Purpose:
//   - Provide the elementwise and broadcast kernels shared by every higher layer
//     (nominal arithmetic, derivative evaluation, sensitivity scaling).
//   - Keep all loops deterministic: a single flat pass over the output buffer.
//
// Design:
//   - Map2 is the only binary kernel; Add/Sub/Mul/Div are thin wrappers.
//   - Broadcasting is resolved once per call through BroadcastIndex; the same
//     index tables can be reused by callers that walk several arrays in lockstep.
//
// Determinism & Performance:
//   - Same-shape fast path skips index tables entirely.
//   - One allocation for the output (plus index tables on the broadcast path).

package ndarray

const (
	opApply       = "Apply"
	opMap2        = "Map2"
	opAdd         = "Add"
	opSub         = "Sub"
	opMul         = "Mul"
	opDiv         = "Div"
	opBroadcastTo = "BroadcastTo"
)

// ValidateNotNil ensures every array reference is non-nil.
// Returns ErrNilArray on the first nil.
func ValidateNotNil(arrays ...*Array) error {
	for _, a := range arrays {
		if a == nil {
			return ErrNilArray
		}
	}

	return nil
}

// Apply returns f applied to every element of a.
// Complexity: O(n).
func Apply(a *Array, f func(float64) float64) (*Array, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, arrayErrorf(opApply, err)
	}
	out := zeros(a.shape)
	for k, v := range a.data {
		out.data[k] = f(v)
	}

	return out, nil
}

// Map2 returns f(a[i], b[i]) over the broadcast shape of a and b.
//
// Implementation:
//   - Stage 1: nil checks; compute Broadcast(a.shape, b.shape).
//   - Stage 2: same-shape fast path, single flat loop.
//   - Stage 3: otherwise build index tables and loop over the output.
//
// Errors: ErrNilArray, ErrShapeMismatch.
// Complexity: O(n) for n output elements.
func Map2(a, b *Array, f func(x, y float64) float64) (*Array, error) {
	if err := ValidateNotNil(a, b); err != nil {
		return nil, arrayErrorf(opMap2, err)
	}
	if a.shape.Equal(b.shape) {
		out := zeros(a.shape)
		for k := range out.data {
			out.data[k] = f(a.data[k], b.data[k])
		}
		return out, nil
	}

	shape, err := Broadcast(a.shape, b.shape)
	if err != nil {
		return nil, arrayErrorf(opMap2, err)
	}
	ia, _ := BroadcastIndex(a.shape, shape) // cannot fail: shape is the broadcast of a
	ib, _ := BroadcastIndex(b.shape, shape)
	out := zeros(shape)
	for k := range out.data {
		out.data[k] = f(a.data[ia[k]], b.data[ib[k]])
	}

	return out, nil
}

// BroadcastTo stretches a to target.
// Errors: ErrNilArray, ErrShapeMismatch.
func BroadcastTo(a *Array, target Shape) (*Array, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, arrayErrorf(opBroadcastTo, err)
	}
	if a.shape.Equal(target) {
		return a, nil // arrays are immutable; sharing is safe
	}
	idx, err := BroadcastIndex(a.shape, target)
	if err != nil {
		return nil, arrayErrorf(opBroadcastTo, err)
	}
	out := zeros(target)
	for k, src := range idx {
		out.data[k] = a.data[src]
	}

	return out, nil
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	out, err := Map2(a, b, func(x, y float64) float64 { return x + y })
	if err != nil {
		return nil, arrayErrorf(opAdd, err)
	}

	return out, nil
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	out, err := Map2(a, b, func(x, y float64) float64 { return x - y })
	if err != nil {
		return nil, arrayErrorf(opSub, err)
	}

	return out, nil
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	out, err := Map2(a, b, func(x, y float64) float64 { return x * y })
	if err != nil {
		return nil, arrayErrorf(opMul, err)
	}

	return out, nil
}

// Div returns a / b with broadcasting. Division by zero follows IEEE-754.
func Div(a, b *Array) (*Array, error) {
	out, err := Map2(a, b, func(x, y float64) float64 { return x / y })
	if err != nil {
		return nil, arrayErrorf(opDiv, err)
	}

	return out, nil
}

// Scale returns k * a. It never fails for a non-nil a.
func Scale(a *Array, k float64) *Array {
	out := zeros(a.shape)
	for i, v := range a.data {
		out.data[i] = k * v
	}

	return out
}

// Sum returns the compensated sum of all elements.
func Sum(a *Array) float64 {
	var acc Kahan
	for _, v := range a.data {
		acc.Add(v)
	}

	return acc.Sum()
}
