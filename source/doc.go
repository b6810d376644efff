// Package source issues identities for independent error sources.
//
// An error source is an independently varying quantity contributing
// uncertainty: a random sampling error, a calibration offset, a systematic
// bias. Every source is named by an ID drawn from an Allocator, and
// derived values refer to the same IDs, so two values that share an ID are
// correlated through that source.
//
// Allocator is an explicit, injectable object: there is no package-level
// singleton. Callers that need a shared sequence pass one *Allocator
// around; tests build a fresh one per test for deterministic IDs.
//
//   - Allocate reserves a whole shape's worth of IDs as one contiguous Block.
//   - The element count of the scalar shape () is 1.
//   - Concurrent callers never receive overlapping blocks.
//
// Usage:
//
//	alloc := source.NewAllocator()
//	blk := alloc.Allocate(ndarray.Shape{3}) // IDs First, First+1, First+2
//	one := alloc.Allocate(ndarray.Shape{})  // exactly one ID
package source
