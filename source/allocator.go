// SPDX-License-Identifier: MIT
// Package: source
//
// Purpose:
//   - Hand out process-unique, monotonically increasing error-source IDs.
//   - Reserve a whole shape's worth of IDs as one atomic transaction.
//
// Concurrency:
//   - A single sync.Mutex guards the counter. The critical section only reads,
//     advances and writes the counter; the Block is built after unlocking.
//   - The Allocator never calls back into caller code, so it cannot deadlock.

package source

import (
	"math"
	"sync"

	"github.com/katalvlaran/uncertain/ndarray"
)

// Allocator issues unique error-source IDs. The zero value is not usable;
// construct one with NewAllocator. An Allocator is safe for concurrent use.
type Allocator struct {
	mu    sync.Mutex
	next  ID // next ID to hand out; guarded by mu
	start ID // first ID ever issued (immutable)
}

// NewAllocator returns an Allocator starting at DefaultStart unless overridden.
// Complexity: O(1).
func NewAllocator(opts ...Option) *Allocator {
	o := gatherOptions(opts...)

	return &Allocator{next: o.start, start: o.start}
}

// Allocate reserves shape.Size() contiguous IDs and returns them as a Block.
//
// Implementation:
//   - Stage 1: compute the element count in integer arithmetic (() -> 1).
//   - Stage 2: lock; read counter; advance by the count; unlock.
//   - Stage 3: build the Block outside the lock.
//
// Behavior highlights:
//   - Concurrent callers never receive overlapping blocks.
//   - A zero-sized shape (some dimension 0) reserves nothing and returns an
//     empty Block positioned at the current counter.
//
// Panics on a negative dimension or when the 64-bit ID space would overflow;
// both are programmer errors.
// Complexity: O(rank) under the lock.
func (a *Allocator) Allocate(shape ndarray.Shape) Block {
	for _, d := range shape {
		if d < 0 {
			panic(panicBadShape)
		}
	}
	n := ID(shape.Size())

	a.mu.Lock()
	first := a.next
	if n > ID(math.MaxUint64)-first {
		a.mu.Unlock()
		panic(panicExhausted)
	}
	a.next = first + n
	a.mu.Unlock()

	return Block{First: first, Shape: shape.Clone()}
}

// AllocateOne reserves a single ID.
func (a *Allocator) AllocateOne() ID {
	return a.Allocate(ndarray.Shape{}).First
}

// Issued returns how many IDs this Allocator has handed out so far.
func (a *Allocator) Issued() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return uint64(a.next - a.start)
}
