//go:build !profile

package prof

import (
	"io"

	"github.com/ardnew/usbid/pkg"
)

// Profiling errors. Stubs never return them.
var (
	ErrCPUProfileActive error
	ErrInvalidProfile   error
)

// Enabled reports whether the package was built with the "profile" tag.
const Enabled = false

// StartCPU is a no-op when built without the "profile" tag.
func StartCPU(_ string) error { return nil }

// StopCPU is a no-op when built without the "profile" tag.
func StopCPU() error { return nil }

// IsCPUActive always returns false when built without the "profile" tag.
func IsCPUActive() bool { return false }

// Write is a no-op when built without the "profile" tag.
func Write(_ Profile, _ string) error { return nil }

// WriteTo is a no-op when built without the "profile" tag.
func WriteTo(_ Profile, _ io.Writer) error { return nil }

// Start returns a no-op stop function when built without the "profile" tag.
// A warning is logged if a profile was requested.
func Start(cpuPath, memPath string) (func() error, error) {
	if cpuPath != "" || memPath != "" {
		pkg.LogWarn(pkg.ComponentCLI, "profiling requested but binary built without -tags profile")
	}
	return func() error { return nil }, nil
}
