// SPDX-License-Identifier: MIT

package uncertain

import (
	"slices"

	"github.com/katalvlaran/uncertain/ndarray"
)

const opPropagate = "Propagate"

// Partial is one operand of an operation together with the operation's
// partial derivative with respect to it, evaluated at the nominal values.
// Derivative must broadcast to the result's shape.
type Partial struct {
	Operand    *Value
	Derivative *ndarray.Array
}

// Propagate assembles the result of an operation from its nominal value and
// the partial derivatives with respect to each operand.
//
// Implementation:
//   - Stage 1: validate operands and derivatives against the result shape.
//   - Stage 2: collect the union of budget names across operands.
//   - Stage 3: per budget, Combine the operands' same-named maps weighted by
//     their derivatives. Operands lacking the budget contribute nothing.
//
// Behavior highlights:
//   - First-order chain rule: dy/ds = Σ_op (dy/dop) · (dop/ds) for every source s.
//   - Never allocates identities; the result's sources are the operands' union.
//
// Errors: ErrNilValue, ErrShapeMismatch.
// Complexity: O(B · n · T log T) for B budgets, n elements and T terms per element.
func Propagate(nominal *ndarray.Array, partials ...Partial) (*Value, error) {
	if nominal == nil {
		return nil, uncertainErrorf(opPropagate, ErrNilValue)
	}
	shape := nominal.Shape()

	names := make([]string, 0, 2)
	for _, p := range partials {
		if p.Operand == nil || p.Derivative == nil {
			return nil, uncertainErrorf(opPropagate, ErrNilValue)
		}
		if !p.Operand.nominal.Shape().BroadcastsTo(shape) || !p.Derivative.Shape().BroadcastsTo(shape) {
			return nil, uncertainErrorf(opPropagate, ErrShapeMismatch)
		}
		for name := range p.Operand.budgets {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	budgets := make(map[string]*SourceMap, len(names))
	parts := make([]Weighted, 0, len(partials))
	for _, name := range names {
		parts = parts[:0]
		for _, p := range partials {
			if m, ok := p.Operand.budgets[name]; ok {
				parts = append(parts, Weighted{Map: m, Coef: p.Derivative})
			}
		}
		m, err := Combine(shape, parts...)
		if err != nil {
			return nil, uncertainErrorf(opPropagate, err)
		}
		budgets[name] = m
	}

	return &Value{nominal: nominal, budgets: budgets}, nil
}
