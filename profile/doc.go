// Package profile starts and stops runtime profiling for the quux command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	quux --pprof-mode=cpu read input.qx
//
// Without the tag [Enabled] is false, [Modes] is empty, and
// [Profiler.Start] returns a [Stopper] that does nothing. Profiles are
// written by github.com/pkg/profile into the directory given by [WithDir]
// and can be inspected with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
