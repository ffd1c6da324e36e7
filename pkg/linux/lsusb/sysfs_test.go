//go:build linux

package lsusb

import (
	"os"
	"path/filepath"
	"testing"
)

// writeAttrs creates dir and writes each attribute file with a trailing
// newline, as sysfs does.
func writeAttrs(t *testing.T, dir string, attrs map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, value := range attrs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func fakeSysfs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeAttrs(t, filepath.Join(root, "usb1"), map[string]string{
		"busnum": "1", "devnum": "1", "idVendor": "1d6b", "idProduct": "0002",
	})
	writeAttrs(t, filepath.Join(root, "1-1"), map[string]string{
		"busnum": "1", "devnum": "5", "idVendor": "046d", "idProduct": "c52b",
		"bDeviceClass": "00", "speed": "12", "manufacturer": "Logitech", "product": "USB Receiver",
	})
	writeAttrs(t, filepath.Join(root, "1-1", "1-1:1.1"), map[string]string{
		"bInterfaceNumber": "01", "bInterfaceClass": "03", "bInterfaceSubClass": "01", "bInterfaceProtocol": "02",
	})
	writeAttrs(t, filepath.Join(root, "1-1", "1-1:1.0"), map[string]string{
		"bInterfaceNumber": "00", "bInterfaceClass": "03", "bInterfaceSubClass": "01", "bInterfaceProtocol": "01",
	})
	writeAttrs(t, filepath.Join(root, "1-1:1.0"), map[string]string{
		"bInterfaceNumber": "00",
	})
	writeAttrs(t, filepath.Join(root, "1-2"), map[string]string{
		"busnum": "1", "devnum": "3", "idVendor": "0403", "idProduct": "6001", "speed": "480",
	})
	// Missing devnum.
	writeAttrs(t, filepath.Join(root, "2-1"), map[string]string{
		"busnum": "2", "idVendor": "0403", "idProduct": "6001",
	})

	driver := filepath.Join(root, "drivers", "usbhid")
	if err := os.MkdirAll(driver, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(driver, filepath.Join(root, "1-1", "1-1:1.0", "driver")); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestScan(t *testing.T) {
	root := fakeSysfs(t)

	devices, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("Scan() returned %d devices, want 2", len(devices))
	}

	ftdi, recv := devices[0], devices[1]
	if ftdi.Num != 3 || recv.Num != 5 {
		t.Errorf("device order = %d, %d; want 3, 5", ftdi.Num, recv.Num)
	}
	if ftdi.VendorID != 0x0403 || ftdi.ProductID != 0x6001 || ftdi.Speed != SpeedHigh {
		t.Errorf("ftdi = %+v", ftdi)
	}
	if recv.Manufacturer != "Logitech" || recv.Product != "USB Receiver" {
		t.Errorf("receiver strings = %q, %q", recv.Manufacturer, recv.Product)
	}
	if recv.Path != filepath.Join(root, "1-1") {
		t.Errorf("receiver path = %q", recv.Path)
	}

	if len(recv.Interfaces) != 2 {
		t.Fatalf("receiver has %d interfaces, want 2", len(recv.Interfaces))
	}
	if recv.Interfaces[0].Number != 0 || recv.Interfaces[0].Protocol != 1 {
		t.Errorf("interface 0 = %+v", recv.Interfaces[0])
	}
	if recv.Interfaces[0].Driver != "usbhid" {
		t.Errorf("interface 0 driver = %q, want usbhid", recv.Interfaces[0].Driver)
	}
	if recv.Interfaces[1].Number != 1 || recv.Interfaces[1].Driver != "" {
		t.Errorf("interface 1 = %+v", recv.Interfaces[1])
	}
}

func TestScan_MissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("Scan() error = %v, want not exist", err)
	}
}

func TestScan_DescribeFixture(t *testing.T) {
	db := fixture(t)
	devices, err := Scan(fakeSysfs(t))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{
		"Bus 001 Device 003: ID 0403:6001 Future Technology Devices International, Ltd FT232 Serial (UART) IC",
		"Bus 001 Device 005: ID 046d:c52b Logitech, Inc. Unifying Receiver",
	}
	for i, d := range devices {
		if got := Describe(db, d); got != want[i] {
			t.Errorf("Describe(devices[%d]) = %q, want %q", i, got, want[i])
		}
	}
}
