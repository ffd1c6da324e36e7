//go:build profile

package prof

import (
	"errors"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"

	"github.com/ardnew/usbid/pkg"
)

// Profiling errors.
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive = errors.New("cpu profile already active")

	// ErrInvalidProfile indicates an invalid or unsupported profile type.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Enabled reports whether the package was built with the "profile" tag.
const Enabled = true

var (
	cpuMutex  sync.Mutex
	cpuFile   *os.File
	cpuActive bool
)

// StartCPU starts CPU profiling to the file at path.
// Returns [ErrCPUProfileActive] if CPU profiling is already active.
func StartCPU(path string) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuActive {
		return ErrCPUProfileActive
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}

	cpuFile = f
	cpuActive = true
	return nil
}

// StopCPU stops CPU profiling. It is safe to call when profiling is not
// active.
func StopCPU() error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if !cpuActive {
		return nil
	}
	pprof.StopCPUProfile()
	cpuActive = false

	err := cpuFile.Close()
	cpuFile = nil
	return err
}

// IsCPUActive reports whether CPU profiling is currently active.
func IsCPUActive() bool {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()
	return cpuActive
}

// Write writes the named profile to the file at path.
func Write(profile Profile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTo(profile, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTo writes the named profile to w in protobuf format.
func WriteTo(profile Profile, w io.Writer) error {
	if profile == ProfileCPU {
		return ErrInvalidProfile
	}
	p := pprof.Lookup(string(profile))
	if p == nil {
		return ErrInvalidProfile
	}
	if profile == ProfileHeap {
		runtime.GC()
	}
	return p.WriteTo(w, 0)
}

// Start begins a profiling session. CPU samples go to cpuPath and a heap
// profile is written to memPath when the returned stop function runs. Either
// path may be empty.
func Start(cpuPath, memPath string) (stop func() error, err error) {
	if cpuPath != "" {
		if err := StartCPU(cpuPath); err != nil {
			return nil, err
		}
		pkg.LogDebug(pkg.ComponentCLI, "cpu profile started", "path", cpuPath)
	}

	return func() error {
		var errs []error
		if cpuPath != "" {
			errs = append(errs, StopCPU())
		}
		if memPath != "" {
			errs = append(errs, Write(ProfileHeap, memPath))
			pkg.LogDebug(pkg.ComponentCLI, "heap profile written", "path", memPath)
		}
		return errors.Join(errs...)
	}, nil
}
