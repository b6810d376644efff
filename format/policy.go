// SPDX-License-Identifier: MIT

package format

import (
	"slices"
	"strconv"

	"github.com/katalvlaran/uncertain/session"
)

const opValidate = "Policy.Validate"

// Protocol is the session protocol under which a Policy is registered.
const Protocol session.Protocol = "format.policy"

// Digit limits.
const (
	DefaultDigits = 2
	MaxDigits     = 15
)

// Policy decides what a rendered measurement shows.
type Policy struct {
	// Digits after the decimal point, for nominal and uncertainty alike.
	Digits int
	// Budgets lists the error budgets that get their own "±" column, in order.
	// Empty means a single column with the total uncertainty.
	Budgets []string
}

// DefaultPolicy returns DefaultDigits and a total-uncertainty column.
func DefaultPolicy() Policy {
	return Policy{Digits: DefaultDigits}
}

// Validate checks Digits against [0, MaxDigits].
// Errors: ErrBadDigits.
func (p Policy) Validate() error {
	if p.Digits < 0 || p.Digits > MaxDigits {
		return formatErrorf(opValidate, ErrBadDigits)
	}

	return nil
}

// clone detaches Budgets so a registered Policy cannot be changed through a copy.
func (p Policy) clone() Policy {
	p.Budgets = slices.Clone(p.Budgets)

	return p
}

// Number formats x with a fixed number of decimals.
func Number(x float64, digits int) string {
	return strconv.FormatFloat(x, 'f', digits, 64)
}
