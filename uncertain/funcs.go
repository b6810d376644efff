// SPDX-License-Identifier: MIT

package uncertain

import (
	"math"

	"github.com/katalvlaran/uncertain/ndarray"
)

// Func is a differentiable elementwise function: F and its derivative DF.
// Name tags errors returned by Apply.
type Func struct {
	Name string
	F    func(float64) float64
	DF   func(float64) float64
}

// Apply evaluates fn elementwise and propagates v's sources through fn.DF
// evaluated at the nominal values.
// Errors: ErrNilValue.
func Apply(v *Value, fn Func) (*Value, error) {
	if v == nil || fn.F == nil || fn.DF == nil {
		return nil, uncertainErrorf(fn.Name, ErrNilValue)
	}
	nom, _ := ndarray.Apply(v.nominal, fn.F)
	d, _ := ndarray.Apply(v.nominal, fn.DF)
	out, err := Propagate(nom, Partial{Operand: v, Derivative: d})
	if err != nil {
		return nil, uncertainErrorf(fn.Name, err)
	}

	return out, nil
}

// Elementwise functions with their analytic derivatives.
var (
	FuncSqrt  = Func{Name: "Sqrt", F: math.Sqrt, DF: func(x float64) float64 { return 0.5 / math.Sqrt(x) }}
	FuncExp   = Func{Name: "Exp", F: math.Exp, DF: math.Exp}
	FuncLog   = Func{Name: "Log", F: math.Log, DF: func(x float64) float64 { return 1 / x }}
	FuncLog10 = Func{Name: "Log10", F: math.Log10, DF: func(x float64) float64 { return 1 / (x * math.Ln10) }}
	FuncLog2  = Func{Name: "Log2", F: math.Log2, DF: func(x float64) float64 { return 1 / (x * math.Ln2) }}
	FuncSin   = Func{Name: "Sin", F: math.Sin, DF: math.Cos}
	FuncCos   = Func{Name: "Cos", F: math.Cos, DF: func(x float64) float64 { return -math.Sin(x) }}
	FuncTan   = Func{Name: "Tan", F: math.Tan, DF: func(x float64) float64 {
		c := math.Cos(x)
		return 1 / (c * c)
	}}
	FuncArcsin = Func{Name: "Arcsin", F: math.Asin, DF: func(x float64) float64 { return 1 / math.Sqrt(1-x*x) }}
	FuncArccos = Func{Name: "Arccos", F: math.Acos, DF: func(x float64) float64 { return -1 / math.Sqrt(1-x*x) }}
	FuncArctan = Func{Name: "Arctan", F: math.Atan, DF: func(x float64) float64 { return 1 / (1 + x*x) }}
	FuncSinh   = Func{Name: "Sinh", F: math.Sinh, DF: math.Cosh}
	FuncCosh   = Func{Name: "Cosh", F: math.Cosh, DF: math.Sinh}
	FuncTanh   = Func{Name: "Tanh", F: math.Tanh, DF: func(x float64) float64 {
		t := math.Tanh(x)
		return 1 - t*t
	}}
	// FuncAbs uses 0 as the derivative at 0.
	FuncAbs = Func{Name: "Abs", F: math.Abs, DF: func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	}}
)

// Sqrt returns √v.
func Sqrt(v *Value) (*Value, error) { return Apply(v, FuncSqrt) }

// Exp returns e**v.
func Exp(v *Value) (*Value, error) { return Apply(v, FuncExp) }

// Log returns the natural logarithm of v.
func Log(v *Value) (*Value, error) { return Apply(v, FuncLog) }

// Log10 returns the decimal logarithm of v.
func Log10(v *Value) (*Value, error) { return Apply(v, FuncLog10) }

// Log2 returns the binary logarithm of v.
func Log2(v *Value) (*Value, error) { return Apply(v, FuncLog2) }

// Sin returns sin(v), v in radians.
func Sin(v *Value) (*Value, error) { return Apply(v, FuncSin) }

// Cos returns cos(v), v in radians.
func Cos(v *Value) (*Value, error) { return Apply(v, FuncCos) }

// Tan returns tan(v), v in radians.
func Tan(v *Value) (*Value, error) { return Apply(v, FuncTan) }

// Arcsin returns asin(v).
func Arcsin(v *Value) (*Value, error) { return Apply(v, FuncArcsin) }

// Arccos returns acos(v).
func Arccos(v *Value) (*Value, error) { return Apply(v, FuncArccos) }

// Arctan returns atan(v).
func Arctan(v *Value) (*Value, error) { return Apply(v, FuncArctan) }

// Sinh returns sinh(v).
func Sinh(v *Value) (*Value, error) { return Apply(v, FuncSinh) }

// Cosh returns cosh(v).
func Cosh(v *Value) (*Value, error) { return Apply(v, FuncCosh) }

// Tanh returns tanh(v).
func Tanh(v *Value) (*Value, error) { return Apply(v, FuncTanh) }

// Abs returns |v|.
func Abs(v *Value) (*Value, error) { return Apply(v, FuncAbs) }

// Arctan2 returns atan2(y, x) elementwise.
func Arctan2(y, x *Value) (*Value, error) {
	return applyBinary(binaryRule{
		name: "Arctan2",
		f:    math.Atan2,
		dx:   func(y, x float64) float64 { return x / (x*x + y*y) },
		dy:   func(y, x float64) float64 { return -y / (x*x + y*y) },
	}, y, x)
}

// Hypot returns sqrt(a² + b²) elementwise.
func Hypot(a, b *Value) (*Value, error) {
	return applyBinary(binaryRule{
		name: "Hypot",
		f:    math.Hypot,
		dx:   func(x, y float64) float64 { return x / math.Hypot(x, y) },
		dy:   func(x, y float64) float64 { return y / math.Hypot(x, y) },
	}, a, b)
}
