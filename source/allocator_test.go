// SPDX-License-Identifier: MIT
// Package source_test verifies uniqueness and atomicity of identity allocation.
package source_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
)

// Common concurrency sizes (avoid magic numbers in test bodies).
const (
	NWorkers      = 32
	NRoundsWorker = 50
	NVectorLen    = 100
)

// TestAllocate_ScalarShape guards against a zero-sized reservation for ().
func TestAllocate_ScalarShape(t *testing.T) {
	t.Parallel()

	a := source.NewAllocator()
	blk := a.Allocate(ndarray.Shape{})
	assert.Equal(t, 1, blk.Len(), "scalar shape must reserve exactly one ID")
	assert.Equal(t, []source.ID{source.DefaultStart}, blk.IDs())
	assert.Equal(t, uint64(1), a.Issued())

	next := a.AllocateOne()
	assert.Equal(t, source.DefaultStart+1, next)
}

func TestAllocate_Contiguous(t *testing.T) {
	t.Parallel()

	a := source.NewAllocator(source.WithStart(1000))
	b1 := a.Allocate(ndarray.Shape{2, 3})
	b2 := a.Allocate(ndarray.Shape{4})

	assert.Equal(t, source.ID(1000), b1.First)
	assert.Equal(t, 6, b1.Len())
	assert.Equal(t, source.ID(1006), b2.First)
	assert.True(t, b1.Contains(1005))
	assert.False(t, b1.Contains(1006))
	assert.Equal(t, source.ID(1007), b2.At(1))
	assert.Equal(t, uint64(10), a.Issued())
}

func TestAllocate_ZeroSized(t *testing.T) {
	t.Parallel()

	a := source.NewAllocator()
	blk := a.Allocate(ndarray.Shape{3, 0})
	assert.Equal(t, 0, blk.Len())
	assert.Empty(t, blk.IDs())
	assert.Equal(t, uint64(0), a.Issued())
}

func TestAllocate_Panics(t *testing.T) {
	t.Parallel()

	a := source.NewAllocator()
	assert.Panics(t, func() { a.Allocate(ndarray.Shape{-1}) })
	assert.Panics(t, func() { source.WithStart(0) })
	assert.Panics(t, func() { a.Allocate(ndarray.Shape{2}).At(2) })
}

func TestID_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "s42", source.ID(42).String())
}

// TestAllocate_ConcurrentUnique fans out (100,) and (1,) reservations and checks
// the union of every returned ID has exactly the requested size.
func TestAllocate_ConcurrentUnique(t *testing.T) {
	t.Parallel()

	a := source.NewAllocator()
	var (
		mu     sync.Mutex
		blocks []source.Block
	)
	var g errgroup.Group
	for w := 0; w < NWorkers; w++ {
		shape := ndarray.Shape{NVectorLen}
		if w%2 == 1 {
			shape = ndarray.Shape{1}
		}
		g.Go(func() error {
			local := make([]source.Block, 0, NRoundsWorker)
			for r := 0; r < NRoundsWorker; r++ {
				local = append(local, a.Allocate(shape))
			}
			mu.Lock()
			blocks = append(blocks, local...)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	want := 0
	seen := make(map[source.ID]struct{})
	for _, b := range blocks {
		want += b.Len()
		for _, id := range b.IDs() {
			_, dup := seen[id]
			require.False(t, dup, "identity %v issued twice", id)
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, want)
	assert.Equal(t, uint64(want), a.Issued())

	// Blocks tile the range without gaps.
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].First < blocks[j].First })
	next := source.DefaultStart
	for _, b := range blocks {
		require.Equal(t, next, b.First)
		next += source.ID(b.Len())
	}
}
