// SPDX-License-Identifier: MIT
// Package: format
//
// Purpose:
//   - Column alignment of numeric strings split at the decimal point.
//
// Model:
//   - A cell "123.45" splits into left "123", point ".", right "45".
//     A cell without a point has an empty point and right part.
//   - Every part is padded to the widest instance of that part in the
//     column, independently, using the part's Alignment.
//   - Widths count runes, so "±" and other non-ASCII glyphs occupy one column.

package format

import (
	"strings"
	"unicode/utf8"
)

const opParseRule = "ParseRule"

// Alignment places a part inside its padded width.
type Alignment int

const (
	// Left puts the text first and the padding after it.
	Left Alignment = iota
	// Right puts the padding first.
	Right
	// Centre splits the padding, the odd space going to the right.
	Centre
)

// String returns the one-letter code used by ParseRule.
func (a Alignment) String() string {
	switch a {
	case Left:
		return "l"
	case Right:
		return "r"
	case Centre:
		return "c"
	default:
		return "?"
	}
}

// Rule holds one Alignment per part of a number.
type Rule struct {
	Int   Alignment // left-of-point
	Point Alignment // the point itself
	Frac  Alignment // right-of-point
}

// Common rules.
var (
	// Decimal lines numbers up on the decimal point.
	Decimal = Rule{Int: Right, Point: Left, Frac: Left}
	// Text keeps the whole cell flush left.
	Text = Rule{Int: Left, Point: Left, Frac: Left}
)

// String returns the three-letter form, e.g. "rll" for Decimal.
func (r Rule) String() string {
	return r.Int.String() + r.Point.String() + r.Frac.String()
}

// ParseRule reads a three-letter rule such as "rcl" (case-insensitive).
// Errors: ErrBadRule.
func ParseRule(s string) (Rule, error) {
	if len(s) != 3 {
		return Rule{}, formatErrorf(opParseRule, ErrBadRule)
	}
	var parts [3]Alignment
	for i, c := range strings.ToLower(s) {
		switch c {
		case 'l':
			parts[i] = Left
		case 'r':
			parts[i] = Right
		case 'c':
			parts[i] = Centre
		default:
			return Rule{}, formatErrorf(opParseRule, ErrBadRule)
		}
	}

	return Rule{Int: parts[0], Point: parts[1], Frac: parts[2]}, nil
}

// split cuts s at its first '.'.
func split(s string) (left, point, right string) {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return s, "", ""
	}

	return s[:i], ".", s[i+1:]
}

// pad widens s to width runes according to a.
func pad(s string, width int, a Alignment) string {
	extra := width - utf8.RuneCountInString(s)
	if extra <= 0 {
		return s
	}
	switch a {
	case Right:
		return strings.Repeat(" ", extra) + s
	case Centre:
		l := extra / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", extra-l)
	default:
		return s + strings.Repeat(" ", extra)
	}
}

// Align pads every cell so that the left-of-point, point and right-of-point
// parts each line up across the column. All returned strings have the same
// rune width.
//
// Complexity: O(total runes).
func Align(cells []string, r Rule) []string {
	lefts := make([]string, len(cells))
	points := make([]string, len(cells))
	rights := make([]string, len(cells))
	var wl, wp, wr int
	for i, c := range cells {
		lefts[i], points[i], rights[i] = split(c)
		wl = max(wl, utf8.RuneCountInString(lefts[i]))
		wp = max(wp, utf8.RuneCountInString(points[i]))
		wr = max(wr, utf8.RuneCountInString(rights[i]))
	}

	out := make([]string, len(cells))
	for i := range cells {
		out[i] = pad(lefts[i], wl, r.Int) + pad(points[i], wp, r.Point) + pad(rights[i], wr, r.Frac)
	}

	return out
}
