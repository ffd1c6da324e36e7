package prof

// Profile names a pprof profile.
type Profile string

// Profile names understood by [Write].
const (
	ProfileCPU       Profile = "cpu"
	ProfileHeap      Profile = "heap"
	ProfileAllocs    Profile = "allocs"
	ProfileGoroutine Profile = "goroutine"
)

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}
