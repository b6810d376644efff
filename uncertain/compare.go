// SPDX-License-Identifier: MIT

package uncertain

import "github.com/katalvlaran/uncertain/ndarray"

// Comparisons look at nominal values only. Uncertainty, including the
// correlation between a and b, is ignored: two values that differ by far
// less than their uncertainty still compare as unequal. The result is a
// row-major []bool over the broadcast shape of a and b.

// Equal reports a == b elementwise on nominal values.
func Equal(a, b *Value) ([]bool, error) {
	return compare("Equal", a, b, func(x, y float64) bool { return x == y })
}

// Less reports a < b elementwise on nominal values.
func Less(a, b *Value) ([]bool, error) {
	return compare("Less", a, b, func(x, y float64) bool { return x < y })
}

// LessEqual reports a <= b elementwise on nominal values.
func LessEqual(a, b *Value) ([]bool, error) {
	return compare("LessEqual", a, b, func(x, y float64) bool { return x <= y })
}

// Greater reports a > b elementwise on nominal values.
func Greater(a, b *Value) ([]bool, error) {
	return compare("Greater", a, b, func(x, y float64) bool { return x > y })
}

// GreaterEqual reports a >= b elementwise on nominal values.
func GreaterEqual(a, b *Value) ([]bool, error) {
	return compare("GreaterEqual", a, b, func(x, y float64) bool { return x >= y })
}

func compare(tag string, a, b *Value, pred func(x, y float64) bool) ([]bool, error) {
	if a == nil || b == nil {
		return nil, uncertainErrorf(tag, ErrNilValue)
	}
	mask, err := ndarray.Map2(a.nominal, b.nominal, func(x, y float64) float64 {
		if pred(x, y) {
			return 1
		}
		return 0
	})
	if err != nil {
		return nil, uncertainErrorf(tag, err)
	}
	out := make([]bool, mask.Size())
	for k := range out {
		out[k] = mask.Flat(k) != 0
	}

	return out, nil
}
