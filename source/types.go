// SPDX-License-Identifier: MIT

package source

import (
	"strconv"

	"github.com/katalvlaran/uncertain/ndarray"
)

// ID identifies one independent error source. IDs are never reused by the
// Allocator that issued them. The zero ID is never issued by a default
// Allocator and may be used as a "no source" marker.
type ID uint64

// String renders the ID as "s<decimal>".
func (id ID) String() string {
	buf := make([]byte, 0, 1+20) // "s" + up to 20 digits for uint64
	buf = append(buf, idPrefix)
	buf = strconv.AppendUint(buf, uint64(id), 10)

	return string(buf)
}

const idPrefix = 's'

// Block is a contiguous run of IDs reserved by a single Allocate call.
// Element k (row-major) of Shape owns ID First+k.
type Block struct {
	First ID            // first reserved ID
	Shape ndarray.Shape // shape the block was reserved for
}

// Len returns the number of IDs in the block (1 for the scalar shape).
func (b Block) Len() int { return b.Shape.Size() }

// At returns the ID owned by flat element k. It panics when k is out of range.
func (b Block) At(k int) ID {
	if k < 0 || k >= b.Len() {
		panic(panicBlockIndex)
	}

	return b.First + ID(k)
}

// Contains reports whether id lies inside the block.
func (b Block) Contains(id ID) bool {
	return id >= b.First && uint64(id-b.First) < uint64(b.Len())
}

// IDs returns every ID of the block in row-major order.
func (b Block) IDs() []ID {
	n := b.Len()
	out := make([]ID, n)
	for k := 0; k < n; k++ {
		out[k] = b.First + ID(k)
	}

	return out
}
