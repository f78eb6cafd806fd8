package log

import "io"

// Option modifies the settings of a [Logger].
type Option func(settings) settings

// WithOutput sets the destination of log records. A nil writer discards.
func WithOutput(w io.Writer) Option {
	return func(s settings) settings {
		if w == nil {
			w = io.Discard
		}

		s.output = w

		return s
	}
}

// WithLevel sets the minimum level of records that are written.
func WithLevel(level Level) Option {
	return func(s settings) settings {
		s.level = level

		return s
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(s settings) settings {
		s.format = format

		return s
	}
}

// WithTimeLayout sets the timestamp layout. It accepts the names of the
// layouts in package time ("RFC3339", "Kitchen", ...), a few short aliases
// ("ms", "us", "ns"), or a literal layout. "none" or an empty layout
// removes timestamps.
func WithTimeLayout(layout string) Option {
	return func(s settings) settings {
		s.layout = resolveLayout(layout)

		return s
	}
}

// WithCaller controls whether the source location is recorded.
func WithCaller(enable bool) Option {
	return func(s settings) settings {
		s.caller = enable

		return s
	}
}

// WithPretty controls colorized single-line text and indented JSON.
func WithPretty(enable bool) Option {
	return func(s settings) settings {
		s.pretty = enable

		return s
	}
}
