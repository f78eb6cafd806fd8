package log

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a log record.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// String returns the lower-case name of l, or the slog form for levels
// between the named ones (for example "INFO+2").
func (l Level) String() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}

	if l < LevelDebug {
		return "trace"
	}

	return slog.Level(l).String()
}

// Levels yields the names of the defined levels, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel returns the level named by s, ignoring case.
// Anything slog accepts ("warn+1", "DEBUG-2") is accepted as well.
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects how records are encoded.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatText

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// Formats yields the names of the supported formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named by s, or [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// DefaultTimeLayout is used when no layout is configured.
const DefaultTimeLayout = time.RFC3339

// layouts maps normalized layout names to time layouts.
// The empty layout disables timestamps.
var layouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
}

// resolveLayout maps a layout name to a time layout. Names are matched
// ignoring case and punctuation; anything else is used verbatim.
func resolveLayout(name string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}

		return -1
	}, name)

	if key == "" {
		return ""
	}

	if layout, ok := layouts[key]; ok {
		return layout
	}

	return name
}

// settings is the immutable configuration of a Logger.
type settings struct {
	output io.Writer
	layout string
	level  Level
	format Format
	caller bool
	pretty bool
}

func defaults(w io.Writer) settings {
	if w == nil {
		w = io.Discard
	}

	return settings{
		output: w,
		layout: DefaultTimeLayout,
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: true,
	}
}

func (s settings) apply(opts ...Option) settings {
	for _, opt := range opts {
		if opt != nil {
			s = opt(s)
		}
	}

	return s
}

// handlerOptions builds the slog options shared by every handler.
func (s settings) handlerOptions() *slog.HandlerOptions {
	layout := s.layout

	return &slog.HandlerOptions{
		AddSource: s.caller,
		Level:     slog.Level(s.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				if layout == "" {
					return slog.Attr{}
				}

				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(layout))
				}

			case slog.LevelKey:
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
				}
			}

			return a
		},
	}
}

func (s settings) handler() slog.Handler {
	opts := s.handlerOptions()

	switch {
	case s.pretty && s.format == FormatText:
		return newPrettyText(s.output, opts)
	case s.pretty && s.format == FormatJSON:
		return newPrettyJSON(s.output, opts)
	case s.format == FormatText:
		return slog.NewTextHandler(s.output, opts)
	case s.format == FormatJSON:
		return slog.NewJSONHandler(s.output, opts)
	default:
		return slog.DiscardHandler
	}
}
