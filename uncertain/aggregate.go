// SPDX-License-Identifier: MIT
// Package: uncertain
//
// Purpose:
//   - Reduce a sequence of Values (or plain data, lifted) into one Value.
//   - Mean: precision of the weighted average; shrinks like σ/√N for N
//     independent samples.
//   - Representative: same nominal, but the uncertainty of a typical sample.
//
// Weighting (per item, per element):
//   - WithWeights: explicit weights, one per item.
//   - InverseVariance (default): 1/variance for uncertain items, 1.0 where an
//     item's variance is zero. Plain items are lifted with unit sources, so
//     they also weigh 1.0. A sequence mixing exact and uncertain items is
//     weighted with this rule unchanged, which can surprise: an exact 0.0
//     next to a 10 ± 0.1 sample is outweighed 100:1.
//   - Uniform: 1.0 for every item.

package uncertain

import (
	"context"
	"errors"
	"iter"
	"math"
	"slices"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/session"
	"github.com/katalvlaran/uncertain/source"
)

const (
	opMean           = "Mean"
	opRepresentative = "Representative"
)

// Mean returns the weighted mean of items.
//
// Implementation:
//   - Stage 1: convert every item (plain data is lifted through alloc).
//   - Stage 2: check that all items share one shape.
//   - Stage 3: compute per-item weights w_i and their sum W.
//   - Stage 4: nominal Σ w_i x_i / W; sources propagated with coefficients w_i / W.
//
// Errors: ErrEmptyAggregation, ErrShapeMismatch, ErrWeightCount, ErrBadWeight,
// plus conversion errors (e.g. ErrNilAllocator when plain items need lifting).
// Complexity: O(N · n · T log T) for N items of n elements with T terms each.
func Mean(alloc *source.Allocator, items iter.Seq[Convertible], opts ...Option) (*Value, error) {
	return aggregate(opMean, alloc, items, gatherOptions(opts...), false)
}

// Representative returns a value with the weighted-mean nominal whose
// uncertainty describes a typical item rather than the mean's precision.
// Per element and source the sensitivity is the weighted RMS over items,
// sign(Σ w_i s_i) · sqrt(Σ w_i s_i² / W): N independent σ-samples give σ, and
// a source shared by every item keeps its full sensitivity.
// Errors: as Mean.
func Representative(alloc *source.Allocator, items iter.Seq[Convertible], opts ...Option) (*Value, error) {
	return aggregate(opRepresentative, alloc, items, gatherOptions(opts...), true)
}

func aggregate(tag string, alloc *source.Allocator, items iter.Seq[Convertible], o Options, representative bool) (*Value, error) {
	// Stage 1: convert.
	var vals []*Value
	if items != nil {
		for it := range items {
			v, err := From(alloc, it)
			if err != nil {
				return nil, uncertainErrorf(tag, err)
			}
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, uncertainErrorf(tag, ErrEmptyAggregation)
	}

	// Stage 2: every item must have the first item's shape; no broadcasting.
	shape := vals[0].nominal.Shape()
	for _, v := range vals[1:] {
		if !v.nominal.Shape().Equal(shape) {
			return nil, uncertainErrorf(tag, ErrShapeMismatch)
		}
	}

	// Stage 3: weights.
	ws, err := itemWeights(vals, shape, o)
	if err != nil {
		return nil, uncertainErrorf(tag, err)
	}
	total, _ := ndarray.Zeros(shape)
	for _, w := range ws {
		total, _ = ndarray.Add(total, w)
	}
	for k := 0; k < total.Size(); k++ {
		if total.Flat(k) <= 0 {
			return nil, uncertainErrorf(tag, ErrBadWeight)
		}
	}

	// Stage 4: nominal.
	num, _ := ndarray.Zeros(shape)
	for i, v := range vals {
		wx, _ := ndarray.Mul(ws[i], v.nominal)
		num, _ = ndarray.Add(num, wx)
	}
	nominal, _ := ndarray.Div(num, total)

	if !representative {
		partials := make([]Partial, len(vals))
		for i, v := range vals {
			c, _ := ndarray.Div(ws[i], total)
			partials[i] = Partial{Operand: v, Derivative: c}
		}
		out, err := Propagate(nominal, partials...)
		if err != nil {
			return nil, uncertainErrorf(tag, err)
		}
		return out, nil
	}

	var names []string
	for _, v := range vals {
		for name := range v.budgets {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	budgets := make(map[string]*SourceMap, len(names))
	for _, name := range names {
		parts := make([]Weighted, 0, len(vals))
		for i, v := range vals {
			if m, ok := v.budgets[name]; ok {
				parts = append(parts, Weighted{Map: m, Coef: ws[i]})
			}
		}
		m, err := combineRMS(shape, total, parts...)
		if err != nil {
			return nil, uncertainErrorf(tag, err)
		}
		budgets[name] = m
	}

	return &Value{nominal: nominal, budgets: budgets}, nil
}

// itemWeights returns one weight array of the common shape per item.
func itemWeights(vals []*Value, shape ndarray.Shape, o Options) ([]*ndarray.Array, error) {
	ws := make([]*ndarray.Array, len(vals))

	if o.weights != nil {
		if len(o.weights) != len(vals) {
			return nil, ErrWeightCount
		}
		for i, w := range o.weights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, ErrBadWeight
			}
			ws[i], _ = ndarray.Full(shape, w)
		}
		return ws, nil
	}

	for i, v := range vals {
		if o.weighting == Uniform {
			ws[i], _ = ndarray.Full(shape, 1)
			continue
		}
		variance, err := ndarray.BroadcastTo(v.Variance(), shape)
		if err != nil {
			return nil, err
		}
		ws[i], _ = ndarray.Apply(variance, func(s2 float64) float64 {
			if s2 > 0 {
				return 1 / s2
			}
			return 1
		})
	}

	return ws, nil
}

// Aggregator binds an Allocator (to lift plain items) and a session
// Registry (to resolve the default Weighting under ProtocolWeighting).
type Aggregator struct {
	alloc    *source.Allocator
	registry *session.Registry
}

// NewAggregator returns an Aggregator. registry may be nil, in which case
// DefaultWeighting applies unless WithWeighting is passed.
func NewAggregator(alloc *source.Allocator, registry *session.Registry) *Aggregator {
	return &Aggregator{alloc: alloc, registry: registry}
}

// Mean is the package-level Mean with the weighting resolved from ctx.
func (g *Aggregator) Mean(ctx context.Context, items iter.Seq[Convertible], opts ...Option) (*Value, error) {
	o, err := g.resolve(ctx, opts)
	if err != nil {
		return nil, uncertainErrorf(opMean, err)
	}

	return aggregate(opMean, g.alloc, items, o, false)
}

// Representative is the package-level Representative with the weighting resolved from ctx.
func (g *Aggregator) Representative(ctx context.Context, items iter.Seq[Convertible], opts ...Option) (*Value, error) {
	o, err := g.resolve(ctx, opts)
	if err != nil {
		return nil, uncertainErrorf(opRepresentative, err)
	}

	return aggregate(opRepresentative, g.alloc, items, o, true)
}

// resolve applies opts, then fills the weighting from the session registry
// when no option chose one. A missing policy keeps DefaultWeighting; any
// other lookup failure (e.g. a policy of the wrong type) is returned.
func (g *Aggregator) resolve(ctx context.Context, opts []Option) (Options, error) {
	o := gatherOptions(opts...)
	if o.weightingSet || g.registry == nil {
		return o, nil
	}
	w, err := session.Lookup[Weighting](ctx, g.registry, ProtocolWeighting)
	switch {
	case err == nil:
		if w != InverseVariance && w != Uniform {
			return o, ErrBadWeight
		}
		o.weighting = w
	case errors.Is(err, session.ErrUnknownProtocol):
		// keep DefaultWeighting
	default:
		return o, err
	}

	return o, nil
}
