package environ

import "github.com/ardnew/argx/log"

// Option configures the environments built by this package.
type Option func(*options)

type options struct {
	logger log.Logger
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger for trace and warning records.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
