// Package profile provides optional runtime profiling for tdict.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof -o tdict .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread, trace.
//
// # Usage
//
//	p := profile.Profiler{}.With(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the configured directory (cpu.pprof,
// mem.pprof, and so on) and can be inspected with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The command line exposes the same settings as --pprof-mode and
// --pprof-dir, defaulting to a "pprof" directory inside the tdict cache
// directory.
package profile
