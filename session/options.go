// SPDX-License-Identifier: MIT

package session

import "go.uber.org/zap"

// Option configures a Registry.
type Option func(*Options)

// Options holds the effective Registry configuration.
type Options struct {
	logger *zap.Logger // zap.NewNop() by default
}

// WithLogger routes push/release diagnostics to l at debug level.
// A nil logger keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
