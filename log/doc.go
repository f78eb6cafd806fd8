// Package log wraps [log/slog] with the small surface used throughout argx.
//
// A [Logger] is a value. Its zero value discards everything, so library code
// can carry a Logger field without checking whether one was configured:
//
//	var logger log.Logger
//	logger.Trace("ignored") // no-op
//
// Loggers are created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//	)
//
// Attributes are always [slog.Attr] values, never loose key/value pairs:
//
//	logger.Info("expanded", slog.Int("rows", n))
//
// # Levels
//
// In addition to the slog levels there is [LevelTrace], used by the lang
// package for step-by-step parse and evaluation records.
//
// # Pretty output
//
// With [WithPretty] enabled (the default) text records are rendered on a
// single colorized line and JSON records are indented. Colors come from
// lipgloss, which drops them automatically when the output is not a
// terminal.
//
// # Default logger
//
// The package-level functions ([Info], [Error], ...) log through a process
// wide default that writes to stderr. [Config] replaces its options.
package log
