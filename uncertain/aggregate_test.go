// SPDX-License-Identifier: MIT

package uncertain_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/session"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// sampleSeries builds n independent samples 10+i/n ± sigma as one vector value.
func sampleSeries(t *testing.T, alloc *source.Allocator, n int, sigma float64, opts ...uncertain.Option) *uncertain.Value {
	t.Helper()
	nom, err := ndarray.Generate(ndarray.Shape{n}, func(i int) float64 { return 10 + float64(i)/float64(n) })
	require.NoError(t, err)

	return MustNew(t, alloc, nom, ndarray.Scalar(sigma), opts...)
}

func TestMean_ShrinksWithSqrtN(t *testing.T) {
	t.Parallel()

	const (
		n     = 100
		sigma = 0.5
	)
	alloc := source.NewAllocator()
	series := sampleSeries(t, alloc, n, sigma)
	items, err := uncertain.Samples(series)
	require.NoError(t, err)

	m, err := uncertain.Mean(alloc, items)
	require.NoError(t, err)
	assert.InDelta(t, sigma/math.Sqrt(n), Sigma(t, m, uncertain.DefaultBudget), epsTight)
	assert.Len(t, m.Sources(), n)

	r, err := uncertain.Representative(alloc, items)
	require.NoError(t, err)
	assert.InDelta(t, sigma, Sigma(t, r, uncertain.DefaultBudget), epsTight)
	assert.InDelta(t, ItemOf(t, m.Nominal()), ItemOf(t, r.Nominal()), epsTight, "same nominal either way")
}

func TestMean_Nominal(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	v := MustNew(t, alloc, ndarray.Vector(1, 2, 3, 4), ndarray.Scalar(0.2))
	items, err := uncertain.Samples(v)
	require.NoError(t, err)

	m, err := uncertain.Mean(alloc, items)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, ItemOf(t, m.Nominal()), epsTight)
	assert.InDelta(t, 0.1, Sigma(t, m, uncertain.DefaultBudget), epsTight)

	r, err := uncertain.Representative(alloc, items)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, Sigma(t, r, uncertain.DefaultBudget), epsTight)
}

func TestMean_InverseVarianceWeights(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	a := MustScalar(t, alloc, 10, 0.1) // w = 100
	b := MustScalar(t, alloc, 20, 1)   // w = 1

	m, err := uncertain.Mean(alloc, uncertain.Values(a, b))
	require.NoError(t, err)
	assert.InDelta(t, 1020.0/101, ItemOf(t, m.Nominal()), epsTight)
	// σ² = (100/101·0.1)² + (1/101·1)² = 101/101²
	assert.InDelta(t, 1/math.Sqrt(101), Sigma(t, m, uncertain.DefaultBudget), epsTight)

	u, err := uncertain.Mean(alloc, uncertain.Values(a, b), uncertain.WithWeighting(uncertain.Uniform))
	require.NoError(t, err)
	assert.InDelta(t, 15, ItemOf(t, u.Nominal()), epsTight)
}

func TestMean_MixedExactAndUncertain(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	sample := MustScalar(t, alloc, 10, 0.1)

	// The plain 0 is lifted with a unit source and weighs 1 against 100.
	m, err := uncertain.Mean(alloc, uncertain.Items(uncertain.Float(0), sample))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/101, ItemOf(t, m.Nominal()), epsTight)
	assert.InDelta(t, 1/math.Sqrt(101), Sigma(t, m, uncertain.DefaultBudget), epsTight)
	assert.Equal(t, uint64(2), alloc.Issued())

	// An exact item has zero variance and therefore weight 1 as well.
	e, err := uncertain.Mean(alloc, uncertain.Values(uncertain.ExactScalar(0), sample))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/101, ItemOf(t, e.Nominal()), epsTight)
	assert.InDelta(t, 100.0/101*0.1, Sigma(t, e, uncertain.DefaultBudget), epsTight)
}

func TestRepresentative_MixedExactAndUncertain(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	sample := MustScalar(t, alloc, 10, 0.1)

	// Weights 1 and 100: the lifted 0 keeps sqrt(1/101) of its unit source,
	// the sample keeps sqrt(100·0.01/101).
	r, err := uncertain.Representative(alloc, uncertain.Items(uncertain.Float(0), sample))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/101, ItemOf(t, r.Nominal()), epsTight)
	assert.InDelta(t, math.Sqrt(2.0/101), Sigma(t, r, uncertain.DefaultBudget), epsTight)

	e, err := uncertain.Representative(alloc, uncertain.Values(uncertain.ExactScalar(0), sample))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/101, ItemOf(t, e.Nominal()), epsTight)
	assert.InDelta(t, 1/math.Sqrt(101), Sigma(t, e, uncertain.DefaultBudget), epsTight)
}

func TestRepresentative_SharedSystematic(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	sys := MustScalar(t, alloc, 0, 0.3, uncertain.WithBudget(uncertain.BudgetSystematic))
	vals := make([]*uncertain.Value, 0, 4)
	for _, x := range []float64{1, 2, 3, 4} {
		s := MustScalar(t, alloc, x, 0.5, uncertain.WithBudget(uncertain.BudgetDispersion))
		v, err := uncertain.Add(s, sys)
		require.NoError(t, err)
		vals = append(vals, v)
	}

	m, err := uncertain.Mean(alloc, uncertain.Values(vals...))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, ItemOf(t, m.Nominal()), epsTight)
	assert.InDelta(t, 0.25, Sigma(t, m, uncertain.BudgetDispersion), epsTight)
	assert.InDelta(t, 0.3, Sigma(t, m, uncertain.BudgetSystematic), epsTight, "shared source does not average down")

	r, err := uncertain.Representative(alloc, uncertain.Values(vals...))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, Sigma(t, r, uncertain.BudgetDispersion), epsTight)
	assert.InDelta(t, 0.3, Sigma(t, r, uncertain.BudgetSystematic), epsTight)
}

func TestAggregate_VectorItems(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	a := MustNew(t, alloc, ndarray.Vector(1, 10), ndarray.Vector(0.1, 1))
	b := MustNew(t, alloc, ndarray.Vector(3, 30), ndarray.Vector(0.1, 1))

	m, err := uncertain.Mean(alloc, uncertain.Values(a, b))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{2}, m.Shape())
	assert.InDeltaSlice(t, []float64{2, 20}, m.Nominal().Data(), epsTight)
	assert.InDeltaSlice(t, []float64{0.1 / math.Sqrt2, 1 / math.Sqrt2}, m.Uncertainty(uncertain.DefaultBudget).Data(), epsTight)
}

func TestAggregate_Errors(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	two := MustNew(t, alloc, ndarray.Vector(1, 2), ndarray.Scalar(0.1))
	three := MustNew(t, alloc, ndarray.Vector(1, 2, 3), ndarray.Scalar(0.1))
	one := MustScalar(t, alloc, 1, 0.1)

	_, err := uncertain.Mean(alloc, uncertain.Items())
	assert.ErrorIs(t, err, uncertain.ErrEmptyAggregation)
	_, err = uncertain.Representative(alloc, nil)
	assert.ErrorIs(t, err, uncertain.ErrEmptyAggregation)
	_, err = uncertain.Mean(alloc, uncertain.Values(two, three))
	assert.ErrorIs(t, err, uncertain.ErrShapeMismatch)

	// Items are never broadcast against each other.
	single := MustNew(t, alloc, ndarray.Vector(5), ndarray.Scalar(0.1))
	_, err = uncertain.Mean(alloc, uncertain.Values(three, one))
	assert.ErrorIs(t, err, uncertain.ErrShapeMismatch, "(3,) vs ()")
	_, err = uncertain.Mean(alloc, uncertain.Values(three, single))
	assert.ErrorIs(t, err, uncertain.ErrShapeMismatch, "(3,) vs (1,)")
	_, err = uncertain.Representative(alloc, uncertain.Values(three, single, one))
	assert.ErrorIs(t, err, uncertain.ErrShapeMismatch)
	_, err = uncertain.Mean(nil, uncertain.Items(uncertain.Float(1)))
	assert.ErrorIs(t, err, uncertain.ErrNilAllocator)
	_, err = uncertain.Mean(alloc, uncertain.Values(one, one), uncertain.WithWeights(1))
	assert.ErrorIs(t, err, uncertain.ErrWeightCount)
	_, err = uncertain.Mean(alloc, uncertain.Values(one, one), uncertain.WithWeights(-1, 2))
	assert.ErrorIs(t, err, uncertain.ErrBadWeight)
	_, err = uncertain.Mean(alloc, uncertain.Values(one, one), uncertain.WithWeights(0, 0))
	assert.ErrorIs(t, err, uncertain.ErrBadWeight)

	_, err = uncertain.Samples(one)
	assert.ErrorIs(t, err, uncertain.ErrNoSamples)
	_, err = uncertain.Samples(nil)
	assert.ErrorIs(t, err, uncertain.ErrNilValue)
}

func TestAggregate_ExplicitWeights(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	m, err := uncertain.Mean(alloc,
		uncertain.Values(uncertain.ExactScalar(0), uncertain.ExactScalar(4)),
		uncertain.WithWeights(1, 3),
	)
	require.NoError(t, err)
	assert.InDelta(t, 3, ItemOf(t, m.Nominal()), epsTight)
	assert.True(t, m.IsExact())
}

func TestAggregate_StopsEarlyOnConversionError(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	_, err := uncertain.Mean(alloc, uncertain.Items(uncertain.Float(1), nil, uncertain.Float(2)))
	assert.ErrorIs(t, err, uncertain.ErrNilValue)
}

func TestAggregator_SessionWeighting(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	reg := session.NewRegistry()
	agg := uncertain.NewAggregator(alloc, reg)
	a := MustScalar(t, alloc, 10, 0.1)
	b := MustScalar(t, alloc, 20, 1)
	items := uncertain.Values(a, b)

	// No policy anywhere: inverse variance.
	m, err := agg.Mean(context.Background(), items)
	require.NoError(t, err)
	assert.InDelta(t, 1020.0/101, ItemOf(t, m.Nominal()), epsTight)

	// Scoped Uniform policy overrides the default.
	scope := reg.NewScope()
	g, err := scope.Activate(uncertain.ProtocolWeighting, uncertain.Uniform)
	require.NoError(t, err)
	ctx := session.WithScope(context.Background(), scope)

	m, err = agg.Mean(ctx, items)
	require.NoError(t, err)
	assert.InDelta(t, 15, ItemOf(t, m.Nominal()), epsTight)

	// An explicit option beats the session.
	m, err = agg.Mean(ctx, items, uncertain.WithWeighting(uncertain.InverseVariance))
	require.NoError(t, err)
	assert.InDelta(t, 1020.0/101, ItemOf(t, m.Nominal()), epsTight)

	require.NoError(t, g.Release())
	r, err := agg.Representative(ctx, items)
	require.NoError(t, err)
	assert.InDelta(t, 1020.0/101, ItemOf(t, r.Nominal()), epsTight)
}

func TestAggregator_WrongPolicyType(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	reg := session.NewRegistry()
	g, err := reg.SetDefault(uncertain.ProtocolWeighting, "uniform")
	require.NoError(t, err)
	defer func() { require.NoError(t, g.Release()) }()

	agg := uncertain.NewAggregator(alloc, reg)
	_, err = agg.Mean(context.Background(), uncertain.Values(uncertain.ExactScalar(1)))
	assert.ErrorIs(t, err, session.ErrPolicyType)
}

func TestAggregator_NilRegistry(t *testing.T) {
	t.Parallel()

	alloc := source.NewAllocator()
	agg := uncertain.NewAggregator(alloc, nil)
	m, err := agg.Mean(context.Background(), uncertain.Items(uncertain.Floats{1, 3}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, m.Nominal().Data(), "a single vector item is its own mean")
}
