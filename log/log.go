package log

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a leveled structured logger.
//
// The zero value discards all records. Loggers are values: [Logger.With],
// [Logger.WithGroup], and [Logger.Wrap] return modified copies and never
// change the receiver.
type Logger struct {
	*slog.Logger

	cfg settings
}

// Make returns a logger writing to w, configured by opts.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := defaults(w).apply(opts...)

	return Logger{Logger: slog.New(cfg.handler()), cfg: cfg}
}

// Wrap returns a copy of l with opts applied on top of its settings.
// Attributes and groups added with With are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := l.cfg
	if cfg.output == nil {
		cfg = defaults(nil)
	}

	cfg = cfg.apply(opts...)

	return Logger{Logger: slog.New(cfg.handler()), cfg: cfg}
}

// With returns a copy of l that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	l.Logger = slog.New(l.Handler().WithAttrs(attrs))

	return l
}

// WithGroup returns a copy of l that nests later attributes under name.
func (l Logger) WithGroup(name string) Logger {
	if l.Logger == nil || name == "" {
		return l
	}

	l.Logger = l.Logger.WithGroup(name)

	return l
}

// Level returns the minimum level written by l.
func (l Logger) Level() Level { return l.cfg.level }

// Format returns the record encoding of l.
func (l Logger) Format() Format { return l.cfg.format }

// Output returns the destination of l, or [io.Discard] for the zero Logger.
func (l Logger) Output() io.Writer {
	if l.cfg.output == nil {
		return io.Discard
	}

	return l.cfg.output
}

// Enabled reports whether l writes records at level.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	if l.Logger == nil {
		return false
	}

	return l.Logger.Enabled(ctx, slog.Level(level))
}

// Log writes a record at level if it is enabled.
func (l Logger) Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	l.LogAttrs(ctx, slog.Level(level), msg, attrs...)
}

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(context.Background(), LevelTrace, msg, attrs...)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.Log(context.Background(), LevelDebug, msg, attrs...)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.Log(context.Background(), LevelInfo, msg, attrs...)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.Log(context.Background(), LevelWarn, msg, attrs...)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.Log(context.Background(), LevelError, msg, attrs...)
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelTrace, msg, attrs...)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelDebug, msg, attrs...)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelInfo, msg, attrs...)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelWarn, msg, attrs...)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelError, msg, attrs...)
}
