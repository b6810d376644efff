// Package format renders uncertain values as aligned text.
//
// Numbers are split at the decimal point into three parts (left-of-point,
// point, right-of-point) and each part is padded to its column width with
// its own Alignment. A Rule bundles the three; Decimal lines numbers up on
// the point, Text keeps a column flush left.
//
// What gets printed (number of digits, which error budgets get a column)
// is a Policy. A Formatter resolves the Policy from an explicit option or,
// failing that, from a session.Registry under Protocol.
//
//	f := format.NewFormatter(reg)
//	out, err := f.Render(ctx, []format.Row{{Label: "t", Value: v}})
//
// The propagation packages never import format; anything with Nominal,
// StdDev and Uncertainty(budget) methods can be rendered.
package format
