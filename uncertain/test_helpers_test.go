// SPDX-License-Identifier: MIT
// Package uncertain_test contains fixtures shared by the uncertain tests.

package uncertain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// Tolerances used across tests (avoid magic numbers in test bodies).
const (
	epsTight = 1e-12
	epsLoose = 1e-6
)

// MustScalar builds x ± sigma in the given budget or fails the test.
func MustScalar(t *testing.T, alloc *source.Allocator, x, sigma float64, opts ...uncertain.Option) *uncertain.Value {
	t.Helper()
	v, err := uncertain.Scalar(alloc, x, sigma, opts...)
	require.NoError(t, err)

	return v
}

// MustNew builds nominal ± sigma or fails the test.
func MustNew(t *testing.T, alloc *source.Allocator, nominal, sigma *ndarray.Array, opts ...uncertain.Option) *uncertain.Value {
	t.Helper()
	v, err := uncertain.New(alloc, nominal, sigma, opts...)
	require.NoError(t, err)

	return v
}

// ItemOf returns the only element of a single-element array.
func ItemOf(t *testing.T, a *ndarray.Array) float64 {
	t.Helper()
	v, err := a.Item()
	require.NoError(t, err)

	return v
}

// Sigma returns the scalar uncertainty of v in one budget.
func Sigma(t *testing.T, v *uncertain.Value, budget string) float64 {
	t.Helper()

	return ItemOf(t, v.Uncertainty(budget))
}
