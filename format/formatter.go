// SPDX-License-Identifier: MIT
// Package: format
//
// Purpose:
//   - Turn uncertain values into strings: one "x ± u" string per element
//     (Measurement) or an aligned table of labelled rows (Formatter.Render).
//
// Policy resolution (Formatter.Policy):
//   - Stage 1: a Policy given with WithPolicy.
//   - Stage 2: the Policy active in the session Registry for ctx.
//   - Stage 3: DefaultPolicy when nothing is registered.

package format

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/session"
)

const (
	opRender      = "Render"
	opMeasurement = "Measurement"
	plusMinus     = "±"
)

// Measured is what format needs from an uncertain value.
type Measured interface {
	Nominal() *ndarray.Array
	StdDev() *ndarray.Array
	Uncertainty(budget string) *ndarray.Array
}

// isNil reports whether m is nil or a nil pointer held in the interface.
func isNil(m Measured) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Row is one labelled value of a table. Non-scalar values expand to one
// line per element labelled "label[k]" in row-major order.
type Row struct {
	Label string
	Value Measured
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithPolicy fixes the Policy, bypassing the session registry.
func WithPolicy(p Policy) Option {
	return func(f *Formatter) {
		pc := p.clone()
		f.policy = &pc
	}
}

// Formatter renders values with a Policy resolved per call.
type Formatter struct {
	registry *session.Registry
	policy   *Policy
}

// NewFormatter returns a Formatter reading its Policy from registry.
// registry may be nil when WithPolicy is given or defaults suffice.
func NewFormatter(registry *session.Registry, opts ...Option) *Formatter {
	f := &Formatter{registry: registry}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Policy resolves the effective Policy for ctx.
// Errors: ErrBadDigits, session.ErrPolicyType.
func (f *Formatter) Policy(ctx context.Context) (Policy, error) {
	var p Policy
	switch {
	case f.policy != nil:
		p = f.policy.clone()
	case f.registry != nil:
		got, err := session.Lookup[Policy](ctx, f.registry, Protocol)
		switch {
		case err == nil:
			p = got.clone()
		case errors.Is(err, session.ErrUnknownProtocol):
			p = DefaultPolicy()
		default:
			return Policy{}, err
		}
	default:
		p = DefaultPolicy()
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// fields returns, per element, the nominal followed by one uncertainty per
// policy column.
func fields(m Measured, p Policy) [][]string {
	nom := m.Nominal()
	var uncs []*ndarray.Array
	if len(p.Budgets) == 0 {
		uncs = []*ndarray.Array{m.StdDev()}
	} else {
		for _, b := range p.Budgets {
			uncs = append(uncs, m.Uncertainty(b))
		}
	}

	out := make([][]string, nom.Size())
	for k := range out {
		row := make([]string, 0, len(uncs)+1)
		row = append(row, Number(nom.Flat(k), p.Digits))
		for _, u := range uncs {
			row = append(row, Number(u.Flat(k), p.Digits))
		}
		out[k] = row
	}

	return out
}

// Measurement renders every element of m as "x ± u" (one "± u" per budget
// in p, or the total when p lists none), in row-major order.
// Errors: ErrNilValue, ErrBadDigits.
func Measurement(m Measured, p Policy) ([]string, error) {
	if isNil(m) {
		return nil, formatErrorf(opMeasurement, ErrNilValue)
	}
	if err := p.Validate(); err != nil {
		return nil, formatErrorf(opMeasurement, err)
	}
	rows := fields(m, p)
	out := make([]string, len(rows))
	for k, r := range rows {
		out[k] = strings.Join(r, " "+plusMinus+" ")
	}

	return out, nil
}

// Render lays rows out as a Table: a Text label column, a Decimal value
// column and one Decimal "±" column per policy budget.
// Errors: ErrNilValue, ErrBadDigits, session.ErrPolicyType.
func (f *Formatter) Render(ctx context.Context, rows []Row) (string, error) {
	p, err := f.Policy(ctx)
	if err != nil {
		return "", formatErrorf(opRender, err)
	}

	cols := []Column{{Header: "name", Rule: Text}, {Header: "value", Rule: Decimal}}
	if len(p.Budgets) == 0 {
		cols = append(cols, Column{Header: plusMinus, Rule: Decimal})
	}
	for _, b := range p.Budgets {
		cols = append(cols, Column{Header: plusMinus + " " + b, Rule: Decimal})
	}

	var cells [][]string
	for _, r := range rows {
		if isNil(r.Value) {
			return "", formatErrorf(opRender, ErrNilValue)
		}
		scalar := r.Value.Nominal().NDim() == 0
		for k, fs := range fields(r.Value, p) {
			label := r.Label
			if !scalar {
				label += "[" + strconv.Itoa(k) + "]"
			}
			cells = append(cells, append([]string{label}, fs...))
		}
	}

	out, err := Table(cols, cells)
	if err != nil {
		return "", formatErrorf(opRender, err)
	}

	return out, nil
}
