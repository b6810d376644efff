// SPDX-License-Identifier: MIT

// Package uncertain: functional options for construction and aggregation.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: option constructors panic only on nonsensical values.
//   - One Options struct; each entry point documents which fields it reads.
package uncertain

import (
	"github.com/katalvlaran/uncertain/session"
)

// Budget names used across the package.
const (
	// DefaultBudget holds sources created by Lift and by New without WithBudget.
	DefaultBudget = "default"

	// BudgetDispersion is the conventional name for random-sampling uncertainty.
	BudgetDispersion = "dispersion"

	// BudgetSystematic is the conventional name for fixed systematic biases.
	BudgetSystematic = "systematic"
)

// Weighting selects how aggregation weighs items without explicit weights.
type Weighting int

const (
	// InverseVariance weighs uncertain items by 1/variance and exact items by 1.0.
	InverseVariance Weighting = iota

	// Uniform weighs every item by 1.0.
	Uniform
)

// String returns the weighting name.
func (w Weighting) String() string {
	switch w {
	case InverseVariance:
		return "inverse-variance"
	case Uniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ProtocolWeighting is the session protocol consulted by Aggregator for the
// default Weighting when no WithWeighting option is given.
const ProtocolWeighting session.Protocol = "uncertain.weighting"

// DefaultWeighting applies when neither an option nor a session policy picks one.
const DefaultWeighting = InverseVariance

const (
	panicEmptyBudget = "uncertain: WithBudget: budget name must not be empty"
	panicWeighting   = "uncertain: WithWeighting: unknown weighting"
)

// Option configures construction (WithBudget) and aggregation
// (WithWeights, WithWeighting).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	budget       string    // DefaultBudget
	weights      []float64 // nil unless WithWeights
	weighting    Weighting // DefaultWeighting
	weightingSet bool      // WithWeighting was applied
}

// WithBudget files newly created sources under the named budget.
// Panics on an empty name.
func WithBudget(name string) Option {
	if name == "" {
		panic(panicEmptyBudget)
	}

	return func(o *Options) { o.budget = name }
}

// WithWeights supplies one explicit weight per aggregated item, overriding the
// weighting rule. Mean and Representative validate them (ErrWeightCount,
// ErrBadWeight).
func WithWeights(w ...float64) Option {
	cp := make([]float64, len(w))
	copy(cp, w)

	return func(o *Options) { o.weights = cp }
}

// WithWeighting selects the default weighting rule. Panics on unknown values.
func WithWeighting(w Weighting) Option {
	if w != InverseVariance && w != Uniform {
		panic(panicWeighting)
	}

	return func(o *Options) {
		o.weighting = w
		o.weightingSet = true
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{budget: DefaultBudget, weighting: DefaultWeighting}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
