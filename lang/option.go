package lang

import "github.com/ardnew/argx/log"

const (
	// DefaultMaxDepth is the default limit on group nesting.
	DefaultMaxDepth = 100

	// DefaultMaxRows is the default limit on the rows of one evaluation.
	DefaultMaxRows = 1 << 16
)

// Option configures parsing and evaluation.
//
// Options given to a parse function are stored in the resulting [AST] and
// become the defaults of every evaluation of it. Options given to an
// evaluation override them for that evaluation only.
type Option func(*options)

type options struct {
	logger      log.Logger
	maxDepth    int
	maxRows     int
	emptyGroups bool
}

func defaultOptions() options {
	return options{
		maxDepth:    DefaultMaxDepth,
		maxRows:     DefaultMaxRows,
		emptyGroups: true,
	}
}

func (o options) apply(opts ...Option) options {
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithMaxDepth limits how deeply groups may nest. Zero or less removes the
// limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithMaxRows limits the number of rows one evaluation may produce. Zero or
// less removes the limit; the count must still fit in an int.
func WithMaxRows(rows int) Option {
	return func(o *options) { o.maxRows = rows }
}

// WithEmptyGroups sets whether "()" is accepted. An empty group has no
// alternatives, so any expression containing one yields no rows.
func WithEmptyGroups(allow bool) Option {
	return func(o *options) { o.emptyGroups = allow }
}

// WithLogger sets the logger for trace records.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
