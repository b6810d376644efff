// SPDX-License-Identifier: MIT
// Package: uncertain
//
// Purpose:
//   - Arithmetic on Values: each operator supplies its nominal kernel and its
//     analytic partial derivatives, then delegates to Propagate.
//   - Exact-operand special cases (Scale, Shift, PowConst) scale or keep the
//     sensitivities without creating identities.
//
// Operand resolution:
//   - Operands are always *Value. Plain numbers enter explicitly via Lift
//     (fresh source) or Exact / ExactScalar (precise); there is no implicit
//     conversion.
//   - Operands without any budget are exact and contribute no partial, which
//     also keeps undefined derivatives (e.g. d/dy x^y at x<0) out of the result.

package uncertain

import (
	"math"

	"github.com/katalvlaran/uncertain/ndarray"
)

const (
	opAdd      = "Add"
	opSub      = "Sub"
	opMul      = "Mul"
	opDiv      = "Div"
	opPow      = "Pow"
	opNeg      = "Neg"
	opScale    = "Scale"
	opShift    = "Shift"
	opPowConst = "PowConst"
)

// binaryRule is a binary operator with its partial derivatives.
type binaryRule struct {
	name string
	f    func(x, y float64) float64
	dx   func(x, y float64) float64 // ∂f/∂x
	dy   func(x, y float64) float64 // ∂f/∂y
}

var (
	ruleAdd = binaryRule{
		name: opAdd,
		f:    func(x, y float64) float64 { return x + y },
		dx:   func(_, _ float64) float64 { return 1 },
		dy:   func(_, _ float64) float64 { return 1 },
	}
	ruleSub = binaryRule{
		name: opSub,
		f:    func(x, y float64) float64 { return x - y },
		dx:   func(_, _ float64) float64 { return 1 },
		dy:   func(_, _ float64) float64 { return -1 },
	}
	ruleMul = binaryRule{
		name: opMul,
		f:    func(x, y float64) float64 { return x * y },
		dx:   func(_, y float64) float64 { return y },
		dy:   func(x, _ float64) float64 { return x },
	}
	ruleDiv = binaryRule{
		name: opDiv,
		f:    func(x, y float64) float64 { return x / y },
		dx:   func(_, y float64) float64 { return 1 / y },
		dy:   func(x, y float64) float64 { return -x / (y * y) },
	}
	rulePow = binaryRule{
		name: opPow,
		f:    math.Pow,
		dx:   func(x, y float64) float64 { return y * math.Pow(x, y-1) },
		dy:   func(x, y float64) float64 { return math.Pow(x, y) * math.Log(x) },
	}
)

// applyBinary evaluates r at the nominal values and propagates both operands.
func applyBinary(r binaryRule, a, b *Value) (*Value, error) {
	if a == nil || b == nil {
		return nil, uncertainErrorf(r.name, ErrNilValue)
	}
	nom, err := ndarray.Map2(a.nominal, b.nominal, r.f)
	if err != nil {
		return nil, uncertainErrorf(r.name, err)
	}

	partials := make([]Partial, 0, 2)
	if len(a.budgets) > 0 {
		dx, _ := ndarray.Map2(a.nominal, b.nominal, r.dx) // shapes already checked
		partials = append(partials, Partial{Operand: a, Derivative: dx})
	}
	if len(b.budgets) > 0 {
		dy, _ := ndarray.Map2(a.nominal, b.nominal, r.dy)
		partials = append(partials, Partial{Operand: b, Derivative: dy})
	}
	out, err := Propagate(nom, partials...)
	if err != nil {
		return nil, uncertainErrorf(r.name, err)
	}

	return out, nil
}

// Add returns a + b.
func Add(a, b *Value) (*Value, error) { return applyBinary(ruleAdd, a, b) }

// Sub returns a - b. Sub(x, x) has zero uncertainty in every budget.
func Sub(a, b *Value) (*Value, error) { return applyBinary(ruleSub, a, b) }

// Mul returns a * b.
func Mul(a, b *Value) (*Value, error) { return applyBinary(ruleMul, a, b) }

// Div returns a / b. Division by a zero nominal follows IEEE-754.
func Div(a, b *Value) (*Value, error) { return applyBinary(ruleDiv, a, b) }

// Pow returns a ** b. The derivative with respect to b involves log(a) and
// is NaN for a ≤ 0; it is only evaluated when b carries sources.
func Pow(a, b *Value) (*Value, error) { return applyBinary(rulePow, a, b) }

// Neg returns -v.
func Neg(v *Value) (*Value, error) {
	out, err := Scale(v, -1)
	if err != nil {
		return nil, uncertainErrorf(opNeg, err)
	}

	return out, nil
}

// Scale returns k * v for an exact scalar k. Sensitivities are scaled in
// place of lifting k, so no identity is allocated.
func Scale(v *Value, k float64) (*Value, error) {
	if v == nil {
		return nil, uncertainErrorf(opScale, ErrNilValue)
	}
	out, err := Propagate(ndarray.Scale(v.nominal, k), Partial{Operand: v, Derivative: ndarray.Scalar(k)})
	if err != nil {
		return nil, uncertainErrorf(opScale, err)
	}

	return out, nil
}

// Shift returns v + k for an exact scalar k; sensitivities are unchanged.
func Shift(v *Value, k float64) (*Value, error) {
	if v == nil {
		return nil, uncertainErrorf(opShift, ErrNilValue)
	}
	nom, _ := ndarray.Apply(v.nominal, func(x float64) float64 { return x + k })
	out, err := Propagate(nom, Partial{Operand: v, Derivative: ndarray.Scalar(1)})
	if err != nil {
		return nil, uncertainErrorf(opShift, err)
	}

	return out, nil
}

// PowConst returns v ** p for an exact exponent p.
func PowConst(v *Value, p float64) (*Value, error) {
	return Apply(v, Func{
		Name: opPowConst,
		F:    func(x float64) float64 { return math.Pow(x, p) },
		DF:   func(x float64) float64 { return p * math.Pow(x, p-1) },
	})
}
