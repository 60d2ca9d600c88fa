// Package profile provides optional runtime profiling of zyra runs.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag:
//
//	go build -tags pprof -o zyra .
//	zyra --pprof-mode cpu run script.zy
//	go tool pprof -http=: ~/.cache/zyra/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing, so
// callers never need to check how the binary was built.
//
// Builds with the tag also register the [net/http/pprof] handlers for
// programs that serve HTTP.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
