// SPDX-License-Identifier: MIT

package source

// DefaultStart is the first ID a new Allocator issues. ID 0 stays unissued.
const DefaultStart ID = 1

const (
	panicStartZero  = "source: WithStart: first ID must be > 0"
	panicBlockIndex = "source: Block.At: index out of range"
	panicBadShape   = "source: Allocate: negative dimension in shape"
	panicExhausted  = "source: Allocate: identity space exhausted"
)

// Option configures an Allocator. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options holds the effective Allocator configuration.
type Options struct {
	start ID // DefaultStart
}

// WithStart sets the first ID the Allocator issues. Useful to keep several
// allocators' ranges visibly apart in tests and logs.
// Panics when first is 0 (reserved as the "no source" marker).
func WithStart(first ID) Option {
	if first == 0 {
		panic(panicStartZero)
	}

	return func(o *Options) { o.start = first }
}

// gatherOptions applies opts over the documented defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{start: DefaultStart}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
