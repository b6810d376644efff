// Package uncertain propagates measurement uncertainty through arithmetic,
// elementwise math and aggregation on arrays of values.
//
// 🚀 What is a Value?
//
//	A nominal array plus named error budgets ("default", "dispersion",
//	"systematic", ...). Each budget is a SourceMap: for every element, the
//	sensitivity d(element)/d(source) to every independent error source.
//	Sources are unit-variance and identified by source.ID, so two values
//	that share an ID are correlated through it.
//
// ✨ Key properties:
//   - Strictly first-order (linearized) propagation; every operator supplies
//     its analytic derivatives and delegates to Propagate.
//   - Correlation is exact: x - x has zero uncertainty, (a+b)+c and a+(b+c)
//     carry identical sensitivities.
//   - Only construction (Lift, New, Scalar) and Inject allocate identities;
//     operations never do.
//   - Shapes broadcast with the usual rules; otherwise ErrShapeMismatch.
//
// ⚙️ Usage:
//
//	alloc := source.NewAllocator()
//	x, _ := uncertain.Scalar(alloc, 4.0, 0.2)
//	y, _ := uncertain.Sqrt(x)             // 2 ± 0.05
//	z, _ := uncertain.Sub(y, y)           // 0 ± 0
//	m, _ := uncertain.Mean(alloc, uncertain.Values(x, y))
//
// Aggregation:
//
//	Mean gives the precision of the weighted average (σ/√N for N independent
//	samples); Representative keeps the spread of a typical sample (σ).
//	Aggregator resolves the default Weighting from a session.Registry.
//
// Comparisons (Equal, Less, ...) use nominal values only.
package uncertain
