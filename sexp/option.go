package sexp

import "github.com/ardnew/sxview/log"

// DefaultMaxDepth is the default limit on list nesting.
const DefaultMaxDepth = 4096

type options struct {
	maxDepth int
	logger   log.Logger
}

// Option configures parsing.
type Option func(*options)

// WithMaxDepth limits how deeply lists may nest.
// Exceeding the limit fails with [ErrMaxDepthExceeded].
// A non-positive depth restores [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
