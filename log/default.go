package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var std atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	std.Store(&l)
}

// Default returns the package-level logger.
func Default() Logger { return *std.Load() }

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) { std.Store(&l) }

// Config applies opts to the package-level logger and returns the result.
func Config(opts ...Option) Logger {
	l := Default().Wrap(opts...)
	SetDefault(l)

	return l
}

func Trace(msg string, attrs ...slog.Attr) { Default().Trace(msg, attrs...) }
func Debug(msg string, attrs ...slog.Attr) { Default().Debug(msg, attrs...) }
func Info(msg string, attrs ...slog.Attr)  { Default().Info(msg, attrs...) }
func Warn(msg string, attrs ...slog.Attr)  { Default().Warn(msg, attrs...) }
func Error(msg string, attrs ...slog.Attr) { Default().Error(msg, attrs...) }

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}
