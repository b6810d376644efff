// Package ndarray provides the small n-dimensional float64 array used to carry
// nominal values, sensitivities and uncertainties.
//
// 🚀 What is in here?
//
//	A deliberately tiny numeric substrate:
//	  • Shape     : dimension tuple; the empty shape () is a scalar with one element
//	  • Array     : immutable row-major flat buffer tagged with a Shape
//	  • Broadcast : standard elementwise broadcasting (align right, 1 stretches)
//	  • Kernels   : Apply / Map2 / Add / Sub / Mul / Div over broadcast operands
//	  • Kahan     : compensated summation for reductions
//
// ✨ Guarantees:
//   - Arrays are never mutated after construction; every kernel allocates its output.
//   - Public constructors validate shapes and data length and return sentinel
//     errors (ErrBadShape, ErrDataLength, ErrShapeMismatch) instead of panicking.
//   - Loop orders are fixed (flat 0..n-1), so results are deterministic.
//
// ⚙️ Usage:
//
//	a := ndarray.Vector(1, 2, 3)
//	b := ndarray.Scalar(10)
//	c, err := ndarray.Add(a, b) // [11, 12, 13], shape (3)
//
// Element counts are always computed with integer arithmetic: Shape{}.Size() == 1.
package ndarray
