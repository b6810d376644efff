// SPDX-License-Identifier: MIT
// Package: uncertain
//
// Purpose:
//   - SourceMap is the unit of uncertainty bookkeeping: for every element of the
//     owning value it records d(element)/d(source) for each contributing source.
//   - Linear combination (chain rule), root-sum-of-squares and covariance all
//     live here so the propagation engine stays a thin loop over budgets.
//
// Representation:
//   - Sparse per element: terms[k] lists (ID, sensitivity) pairs sorted by ID
//     with no duplicates. A lifted n-vector therefore costs O(n), not O(n²).
//   - The "identity -> sensitivity array" view is materialized on demand by
//     Sensitivity(id).
//
// Determinism:
//   - Terms are kept sorted; reductions walk them in ID order with Kahan sums.

package uncertain

import (
	"math"
	"slices"
	"sort"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
)

const (
	opCombine    = "Combine"
	opCovariance = "Covariance"
)

// Term is one source's sensitivity at one element.
type Term struct {
	ID          source.ID
	Sensitivity float64
}

// SourceMap maps source identities to per-element sensitivities.
// A SourceMap is immutable once built and owned by exactly one Value budget.
type SourceMap struct {
	shape ndarray.Shape
	terms [][]Term // len == shape.Size(); each sorted by ID, unique IDs
}

// Weighted pairs a SourceMap with the coefficient it contributes with.
// Coef must broadcast to the combination's output shape; a nil Map
// contributes nothing.
type Weighted struct {
	Map  *SourceMap
	Coef *ndarray.Array
}

// newSourceMap returns an empty map of the given shape.
func newSourceMap(shape ndarray.Shape) *SourceMap {
	return &SourceMap{shape: shape.Clone(), terms: make([][]Term, shape.Size())}
}

// liftSourceMap gives element k its own identity blk.At(k) with sensitivity sigma[k].
// sigma must already have blk.Shape.
func liftSourceMap(blk source.Block, sigma *ndarray.Array) *SourceMap {
	m := newSourceMap(blk.Shape)
	for k := range m.terms {
		m.terms[k] = []Term{{ID: blk.At(k), Sensitivity: sigma.Flat(k)}}
	}

	return m
}

// Shape returns the shape of the owning value.
func (m *SourceMap) Shape() ndarray.Shape { return m.shape.Clone() }

// Len returns the number of distinct source identities in the map.
func (m *SourceMap) Len() int { return len(m.IDs()) }

// IDs returns the sorted union of identities present at any element.
func (m *SourceMap) IDs() []source.ID {
	seen := make(map[source.ID]struct{})
	for _, ts := range m.terms {
		for _, t := range ts {
			seen[t.ID] = struct{}{}
		}
	}
	out := make([]source.ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)

	return out
}

// Terms returns a copy of the terms at flat element k, sorted by ID.
// It panics if k is out of range, like slice indexing.
func (m *SourceMap) Terms(k int) []Term {
	return slices.Clone(m.terms[k])
}

// Lookup returns the sensitivity of flat element k to id, or 0 when id does not contribute.
func (m *SourceMap) Lookup(k int, id source.ID) float64 {
	ts := m.terms[k]
	i := sort.Search(len(ts), func(i int) bool { return ts[i].ID >= id })
	if i < len(ts) && ts[i].ID == id {
		return ts[i].Sensitivity
	}

	return 0
}

// Sensitivity returns d(value)/d(id) as an array of the map's shape,
// zero wherever id does not contribute (including absent identities).
func (m *SourceMap) Sensitivity(id source.ID) *ndarray.Array {
	out, _ := ndarray.Generate(m.shape, func(k int) float64 { return m.Lookup(k, id) })

	return out
}

// IsZero reports whether every sensitivity in the map is exactly zero.
func (m *SourceMap) IsZero() bool {
	for _, ts := range m.terms {
		for _, t := range ts {
			if t.Sensitivity != 0 {
				return false
			}
		}
	}

	return true
}

// Variance returns Σ sensitivity² per element, treating every identity as an
// independent unit-variance source.
// Complexity: O(total terms).
func (m *SourceMap) Variance() *ndarray.Array {
	var acc ndarray.Kahan
	out, _ := ndarray.Generate(m.shape, func(k int) float64 {
		acc.Reset()
		for _, t := range m.terms[k] {
			acc.Add(t.Sensitivity * t.Sensitivity)
		}
		return acc.Sum()
	})

	return out
}

// StdDev returns the root-sum-of-squares of the sensitivities per element.
func (m *SourceMap) StdDev() *ndarray.Array {
	v := m.Variance()
	out, _ := ndarray.Apply(v, math.Sqrt)

	return out
}

// index returns the sub-map for row i of the first axis.
func (m *SourceMap) index(i int) *SourceMap {
	sub := m.shape[1:].Clone()
	n := sub.Size()
	out := newSourceMap(sub)
	copy(out.terms, m.terms[i*n:(i+1)*n]) // term slices are immutable and shared

	return out
}

// Combine builds the chain-rule combination Σ_i Coef_i * Map_i over shape.
//
// Implementation:
//   - Stage 1: build broadcast index tables for every map and coefficient.
//   - Stage 2: per output element, gather scaled terms from every part.
//   - Stage 3: sort by ID and coalesce duplicates by signed summation.
//
// Behavior highlights:
//   - The identity set of the result is the union of the parts' identity sets.
//   - Shared identities are summed algebraically before any squaring, so
//     correlated contributions cancel or reinforce exactly.
//
// Errors: ErrShapeMismatch when a map or coefficient does not broadcast to shape.
// Complexity: O(T log T) per element for T gathered terms.
func Combine(shape ndarray.Shape, parts ...Weighted) (*SourceMap, error) {
	type prepared struct {
		m       *SourceMap
		coef    *ndarray.Array
		mIdx    []int
		coefIdx []int
	}
	ready := make([]prepared, 0, len(parts))
	for _, p := range parts {
		if p.Map == nil {
			continue
		}
		if p.Coef == nil {
			return nil, uncertainErrorf(opCombine, ErrNilValue)
		}
		mIdx, err := ndarray.BroadcastIndex(p.Map.shape, shape)
		if err != nil {
			return nil, uncertainErrorf(opCombine, err)
		}
		cIdx, err := ndarray.BroadcastIndex(p.Coef.Shape(), shape)
		if err != nil {
			return nil, uncertainErrorf(opCombine, err)
		}
		ready = append(ready, prepared{m: p.Map, coef: p.Coef, mIdx: mIdx, coefIdx: cIdx})
	}

	out := newSourceMap(shape)
	var buf []Term
	for k := range out.terms {
		buf = buf[:0]
		for _, p := range ready {
			c := p.coef.Flat(p.coefIdx[k])
			for _, t := range p.m.terms[p.mIdx[k]] {
				buf = append(buf, Term{ID: t.ID, Sensitivity: c * t.Sensitivity})
			}
		}
		out.terms[k] = coalesce(buf)
	}

	return out, nil
}

// coalesce sorts terms by ID and sums duplicates into a fresh slice.
func coalesce(buf []Term) []Term {
	if len(buf) == 0 {
		return nil
	}
	slices.SortStableFunc(buf, func(a, b Term) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	out := make([]Term, 0, len(buf))
	for _, t := range buf {
		if n := len(out); n > 0 && out[n-1].ID == t.ID {
			out[n-1].Sensitivity += t.Sensitivity
			continue
		}
		out = append(out, t)
	}

	return out
}

// combineRMS builds, per element and identity, the weighted root-mean-square
// sensitivity sign(Σ w_i s_i) * sqrt(Σ w_i s_i² / W), where W = total.
// Used by Representative: a typical sample's sensitivity, not the mean's.
// Coefficients of parts are the per-item weights w_i; total must have shape.
func combineRMS(shape ndarray.Shape, total *ndarray.Array, parts ...Weighted) (*SourceMap, error) {
	type acc struct {
		lin float64 // Σ w s
		sq  float64 // Σ w s²
	}
	out := newSourceMap(shape)
	idxs := make([][2][]int, len(parts))
	for i, p := range parts {
		if p.Map == nil {
			continue
		}
		mIdx, err := ndarray.BroadcastIndex(p.Map.shape, shape)
		if err != nil {
			return nil, uncertainErrorf(opCombine, err)
		}
		cIdx, err := ndarray.BroadcastIndex(p.Coef.Shape(), shape)
		if err != nil {
			return nil, uncertainErrorf(opCombine, err)
		}
		idxs[i] = [2][]int{mIdx, cIdx}
	}

	for k := range out.terms {
		sums := make(map[source.ID]*acc)
		for i, p := range parts {
			if p.Map == nil {
				continue
			}
			w := p.Coef.Flat(idxs[i][1][k])
			for _, t := range p.Map.terms[idxs[i][0][k]] {
				a := sums[t.ID]
				if a == nil {
					a = &acc{}
					sums[t.ID] = a
				}
				a.lin += w * t.Sensitivity
				a.sq += w * t.Sensitivity * t.Sensitivity
			}
		}
		if len(sums) == 0 {
			continue
		}
		wt := total.Flat(k)
		ts := make([]Term, 0, len(sums))
		for id, a := range sums {
			s := math.Sqrt(a.sq / wt)
			if a.lin < 0 {
				s = -s
			}
			ts = append(ts, Term{ID: id, Sensitivity: s})
		}
		out.terms[k] = coalesce(ts)
	}

	return out, nil
}

// Covariance returns Σ_id a[id]·b[id] per element of the broadcast shape:
// the covariance contributed by the identities a and b share.
// Errors: ErrNilValue, ErrShapeMismatch.
func Covariance(a, b *SourceMap) (*ndarray.Array, error) {
	if a == nil || b == nil {
		return nil, uncertainErrorf(opCovariance, ErrNilValue)
	}
	shape, err := ndarray.Broadcast(a.shape, b.shape)
	if err != nil {
		return nil, uncertainErrorf(opCovariance, err)
	}
	ia, _ := ndarray.BroadcastIndex(a.shape, shape)
	ib, _ := ndarray.BroadcastIndex(b.shape, shape)

	var acc ndarray.Kahan
	out, _ := ndarray.Generate(shape, func(k int) float64 {
		acc.Reset()
		ta, tb := a.terms[ia[k]], b.terms[ib[k]]
		i, j := 0, 0
		for i < len(ta) && j < len(tb) {
			switch {
			case ta[i].ID < tb[j].ID:
				i++
			case ta[i].ID > tb[j].ID:
				j++
			default:
				acc.Add(ta[i].Sensitivity * tb[j].Sensitivity)
				i++
				j++
			}
		}
		return acc.Sum()
	})

	return out, nil
}
