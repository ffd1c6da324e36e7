// Package prof profiles usbid compilation runs.
//
// It wraps [runtime/pprof] and is conditionally compiled using the "profile"
// build tag:
//
//	go build -tags profile ./cmd/usbid
//
// Without the tag every function is a no-op, so the compile command can keep
// its -cpuprofile and -memprofile flags in production builds.
//
// # Sessions
//
// [Start] covers the common case of profiling one command invocation:
//
//	stop, err := prof.Start("cpu.prof", "mem.prof")
//	if err != nil {
//	    return err
//	}
//	defer stop()
//
// An empty path disables that profile. The heap profile is captured when
// stop is called, after a forced garbage collection, so it reflects the
// memory retained by the compiled database.
//
// # Snapshot Profiles
//
// [Write] captures a point-in-time profile by name. [ProfileCPU] cannot be
// written this way; use [StartCPU] and [StopCPU].
package prof
