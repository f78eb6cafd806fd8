// Package cli contains the command line interface for argx.
//
// # Usage
//
//	argx [flags] EXPR...           expand expressions (default command)
//	argx fmt EXPR...               print the canonical form
//	argx ast -o json EXPR...       print the syntax tree
//	argx count EXPR...             print row counts
//	argx repl --bindings=vars.yaml preview expansions interactively
//	argx init                      write the configuration file
//
// Expressions may also be read one per line from files with -f, where "-"
// is standard input.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/argx/config.yaml). The file is a YAML
// mapping of flag names to values; underscores may be used in place of
// hyphens:
//
//	log_level: debug
//	format: json
//	set:
//	  - PREFIX=/usr/local
//
// Command-line flags override configured values. "argx init" writes the
// current values of the global flags.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout, by name (RFC3339, Kitchen, none)
//     or as a Go layout
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// Logging flags take effect before the rest of the command line is parsed,
// regardless of their position.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o argx .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/argx/pprof)
package cli
