// Package uncertain is a toolkit for first-order propagation of measurement
// uncertainty through array arithmetic, with correlations tracked exactly.
//
// 🚀 What is in the module?
//
//	A value carries its nominal array plus, per error budget, the sensitivity
//	of every element to every independent error source. Operations combine
//	sensitivities by the chain rule, so shared sources cancel or reinforce
//	instead of being counted twice.
//
// ✨ Highlights:
//
//   - Exact correlation bookkeeping: x - x is exactly 0 ± 0
//   - Named error budgets (dispersion, systematic, ...) kept apart end to end
//   - Weighted mean and representative aggregation over iter.Seq inputs
//   - Explicit, injectable state: no package-level allocator or registry
//
// Packages:
//
//	ndarray/   float64 n-dimensional arrays, shapes and broadcasting
//	source/    thread-safe allocation of unique error-source identities
//	uncertain/ Value, SourceMap, Propagate, operators, math, Mean, Representative
//	session/   scoped default policies (weighting, formatting) via context.Context
//	format/    decimal-point column alignment and table rendering
//	cmd/uncertain CLI aggregating YAML datasets
//
// Quick start:
//
//	alloc := source.NewAllocator()
//	x, _ := uncertain.Scalar(alloc, 4.0, 0.2)
//	y, _ := uncertain.Sqrt(x) // 2 ± 0.05
package uncertain
