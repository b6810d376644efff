// SPDX-License-Identifier: MIT

package uncertain

import (
	"math"
	"slices"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
)

const (
	opLift        = "Lift"
	opNew         = "New"
	opExact       = "Exact"
	opInject      = "Inject"
	opIndex       = "Index"
	opCorrelation = "Correlation"
)

// Value is an array of nominal values together with named error budgets.
// Each budget is a SourceMap over the same shape as the nominal array.
//
// Values are immutable: every operation returns a new Value, and a Value may
// be read from several goroutines at once.
type Value struct {
	nominal *ndarray.Array
	budgets map[string]*SourceMap
}

// Lift turns a plain array into a Value with one fresh independent source per
// element, filed under DefaultBudget with unit sensitivity.
//
// Implementation:
//   - Stage 1: validate alloc and nominal.
//   - Stage 2: reserve one Block of nominal.Size() identities.
//   - Stage 3: element k gets identity First+k with sensitivity 1.
//
// Errors: ErrNilAllocator, ErrNilValue.
// Complexity: O(n).
func Lift(alloc *source.Allocator, nominal *ndarray.Array) (*Value, error) {
	if alloc == nil {
		return nil, uncertainErrorf(opLift, ErrNilAllocator)
	}
	if nominal == nil {
		return nil, uncertainErrorf(opLift, ErrNilValue)
	}
	ones, _ := ndarray.Full(nominal.Shape(), 1)
	blk := alloc.Allocate(nominal.Shape())

	return &Value{
		nominal: nominal,
		budgets: map[string]*SourceMap{DefaultBudget: liftSourceMap(blk, ones)},
	}, nil
}

// New lifts nominal with an explicit uncertainty sigma (standard deviation),
// which must broadcast to nominal's shape. Each element receives its own
// fresh source with sensitivity sigma[k], filed under DefaultBudget or the
// budget chosen with WithBudget.
//
// Errors: ErrNilAllocator, ErrNilValue, ErrShapeMismatch, ErrBadUncertainty.
func New(alloc *source.Allocator, nominal, sigma *ndarray.Array, opts ...Option) (*Value, error) {
	if alloc == nil {
		return nil, uncertainErrorf(opNew, ErrNilAllocator)
	}
	if nominal == nil || sigma == nil {
		return nil, uncertainErrorf(opNew, ErrNilValue)
	}
	o := gatherOptions(opts...)

	sig, err := checkedSigma(sigma, nominal.Shape())
	if err != nil {
		return nil, uncertainErrorf(opNew, err)
	}
	blk := alloc.Allocate(nominal.Shape())

	return &Value{
		nominal: nominal,
		budgets: map[string]*SourceMap{o.budget: liftSourceMap(blk, sig)},
	}, nil
}

// Scalar is New for a single number: x ± sigma.
func Scalar(alloc *source.Allocator, x, sigma float64, opts ...Option) (*Value, error) {
	return New(alloc, ndarray.Scalar(x), ndarray.Scalar(sigma), opts...)
}

// Exact returns a Value with no error sources. It is the precise operand
// used for exact constants: combining with it never allocates identities.
// Errors: ErrNilValue.
func Exact(nominal *ndarray.Array) (*Value, error) {
	if nominal == nil {
		return nil, uncertainErrorf(opExact, ErrNilValue)
	}

	return &Value{nominal: nominal, budgets: map[string]*SourceMap{}}, nil
}

// ExactScalar returns the exact 0-dimensional Value x.
func ExactScalar(x float64) *Value {
	return &Value{nominal: ndarray.Scalar(x), budgets: map[string]*SourceMap{}}
}

// checkedSigma broadcasts sigma to shape and rejects negative or non-finite entries.
func checkedSigma(sigma *ndarray.Array, shape ndarray.Shape) (*ndarray.Array, error) {
	sig, err := ndarray.BroadcastTo(sigma, shape)
	if err != nil {
		return nil, err
	}
	for k := 0; k < sig.Size(); k++ {
		s := sig.Flat(k)
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, ErrBadUncertainty
		}
	}

	return sig, nil
}

// Inject returns a copy of v with an additional fresh independent source per
// element, of magnitude sigma, in the named budget. This is the only way,
// besides construction, to introduce new identities into a derived value.
// Errors: ErrNilValue, ErrNilAllocator, ErrShapeMismatch, ErrBadUncertainty.
func (v *Value) Inject(alloc *source.Allocator, budget string, sigma *ndarray.Array) (*Value, error) {
	if v == nil || sigma == nil {
		return nil, uncertainErrorf(opInject, ErrNilValue)
	}
	if alloc == nil {
		return nil, uncertainErrorf(opInject, ErrNilAllocator)
	}
	if budget == "" {
		budget = DefaultBudget
	}
	shape := v.nominal.Shape()
	sig, err := checkedSigma(sigma, shape)
	if err != nil {
		return nil, uncertainErrorf(opInject, err)
	}
	fresh := liftSourceMap(alloc.Allocate(shape), sig)

	budgets := make(map[string]*SourceMap, len(v.budgets)+1)
	for name, m := range v.budgets {
		budgets[name] = m
	}
	if prev, ok := budgets[budget]; ok {
		ones := ndarray.Scalar(1)
		merged, err := Combine(shape, Weighted{Map: prev, Coef: ones}, Weighted{Map: fresh, Coef: ones})
		if err != nil {
			return nil, uncertainErrorf(opInject, err)
		}
		fresh = merged
	}
	budgets[budget] = fresh

	return &Value{nominal: v.nominal, budgets: budgets}, nil
}

// Nominal returns the nominal values. The array is immutable and shared.
func (v *Value) Nominal() *ndarray.Array { return v.nominal }

// Shape returns the value's shape.
func (v *Value) Shape() ndarray.Shape { return v.nominal.Shape() }

// Budgets returns the budget names in sorted order.
func (v *Value) Budgets() []string {
	names := make([]string, 0, len(v.budgets))
	for name := range v.budgets {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Budget returns the SourceMap filed under name.
func (v *Value) Budget(name string) (*SourceMap, bool) {
	m, ok := v.budgets[name]

	return m, ok
}

// IsExact reports whether v carries no source identities at all. A value
// whose sensitivities cancel, such as Sub(x, x), keeps its identities with
// zero sensitivity: its uncertainty is zero but IsExact is false.
func (v *Value) IsExact() bool {
	for _, m := range v.budgets {
		if len(m.IDs()) > 0 {
			return false
		}
	}

	return true
}

// Sources returns the sorted union of identities across every budget.
func (v *Value) Sources() []source.ID {
	seen := make(map[source.ID]struct{})
	for _, m := range v.budgets {
		for _, id := range m.IDs() {
			seen[id] = struct{}{}
		}
	}
	out := make([]source.ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)

	return out
}

// Uncertainty returns the root-sum-of-squares uncertainty of one budget,
// or zeros when v has no such budget.
func (v *Value) Uncertainty(budget string) *ndarray.Array {
	if m, ok := v.budgets[budget]; ok {
		return m.StdDev()
	}
	out, _ := ndarray.Zeros(v.nominal.Shape())

	return out
}

// Variance returns the total variance per element: the sum of every
// budget's variance.
func (v *Value) Variance() *ndarray.Array {
	out, _ := ndarray.Zeros(v.nominal.Shape())
	for _, name := range v.Budgets() {
		out, _ = ndarray.Add(out, v.budgets[name].Variance())
	}

	return out
}

// StdDev returns the total uncertainty per element across all budgets.
func (v *Value) StdDev() *ndarray.Array {
	out, _ := ndarray.Apply(v.Variance(), math.Sqrt)

	return out
}

// Index returns v[i] along the first axis, keeping every source identity.
// Errors: ErrNilValue, ErrNoSamples for 0-dimensional values, ndarray.ErrOutOfRange.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil {
		return nil, uncertainErrorf(opIndex, ErrNilValue)
	}
	if v.nominal.NDim() == 0 {
		return nil, uncertainErrorf(opIndex, ErrNoSamples)
	}
	nom, err := v.nominal.Index(i)
	if err != nil {
		return nil, uncertainErrorf(opIndex, err)
	}
	budgets := make(map[string]*SourceMap, len(v.budgets))
	for name, m := range v.budgets {
		budgets[name] = m.index(i)
	}

	return &Value{nominal: nom, budgets: budgets}, nil
}

// CovarianceOf returns the covariance of a and b per element of their
// broadcast shape, summed over budgets present in both. An identity only
// ever lives in the budget it was created in, so cross-budget terms vanish.
// Errors: ErrNilValue, ErrShapeMismatch.
func CovarianceOf(a, b *Value) (*ndarray.Array, error) {
	if a == nil || b == nil {
		return nil, uncertainErrorf(opCovariance, ErrNilValue)
	}
	shape, err := ndarray.Broadcast(a.nominal.Shape(), b.nominal.Shape())
	if err != nil {
		return nil, uncertainErrorf(opCovariance, err)
	}
	out, _ := ndarray.Zeros(shape)
	for _, name := range a.Budgets() {
		mb, ok := b.budgets[name]
		if !ok {
			continue
		}
		c, err := Covariance(a.budgets[name], mb)
		if err != nil {
			return nil, uncertainErrorf(opCovariance, err)
		}
		out, _ = ndarray.Add(out, c)
	}

	return out, nil
}

// Correlation returns cov(a,b)/(σa·σb) per element; NaN where either σ is zero.
// Errors: ErrNilValue, ErrShapeMismatch.
func Correlation(a, b *Value) (*ndarray.Array, error) {
	cov, err := CovarianceOf(a, b)
	if err != nil {
		return nil, uncertainErrorf(opCorrelation, err)
	}
	den, err := ndarray.Mul(a.StdDev(), b.StdDev())
	if err != nil {
		return nil, uncertainErrorf(opCorrelation, err)
	}
	out, _ := ndarray.Map2(cov, den, func(c, d float64) float64 {
		if d == 0 {
			return math.NaN()
		}
		return c / d
	})

	return out, nil
}
