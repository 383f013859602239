// Package profile provides optional runtime profiling for sxview.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// controller. With it, the command accepts --pprof-mode and --pprof-dir:
//
//	sxview --pprof-mode cpu fmt json big.sexp
//	go tool pprof -http=: ~/.cache/sxview/pprof/cpu.pprof
//
// The default output directory is the pprof subdirectory of the user cache
// directory. Building with the tag also registers the [net/http/pprof]
// handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
