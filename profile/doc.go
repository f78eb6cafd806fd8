// Package profile starts and stops runtime profiling for the argx command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty, so
// callers never need to check the build configuration.
//
// # Modes
//
//   - cpu, clock: CPU and wall-clock sampling
//   - mem, heap, allocs: memory profiles
//   - block, mutex: contention profiles
//   - goroutine, thread: stack dumps
//   - trace: execution trace, for short runs only
//
// Profiles are written to the configured path, by default the pprof
// directory under the argx cache directory. Inspect them with:
//
//	go tool pprof -http=:8080 cpu.pprof
//	go tool trace trace.out
//
// Expanding a wide template is dominated by the odometer loop in the lang
// package; a cpu profile of "argx count" isolates planning, while
// "argx expand --format nul" shows rendering and sink cost.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
