//go:build !profile

package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStub_NoOp(t *testing.T) {
	if Enabled {
		t.Fatal("Enabled = true without profile tag")
	}

	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	stop, err := Start(cpu, mem)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if IsCPUActive() {
		t.Error("IsCPUActive() = true in stub build")
	}
	if err := stop(); err != nil {
		t.Errorf("stop() error = %v", err)
	}

	for _, path := range []string{cpu, mem} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("Stat(%s) error = %v, want not exist", path, err)
		}
	}
}

func TestProfile_String(t *testing.T) {
	if got := ProfileHeap.String(); got != "heap" {
		t.Errorf("ProfileHeap.String() = %q, want %q", got, "heap")
	}
}
