//go:build linux

package lsusb

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/usbid/pkg"
)

// DefaultRoot is the sysfs directory listing USB devices.
const DefaultRoot = "/sys/bus/usb/devices"

// Scan returns the devices under root, or [DefaultRoot] if root is empty,
// ordered by bus and device number. Entries that cannot be parsed are
// skipped.
func Scan(root string) ([]Device, error) {
	if root == "" {
		root = DefaultRoot
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, entry := range entries {
		name := entry.Name()

		// Devices are named like "1-1" or "1-1.2"; "usbN" entries are root
		// hubs and "1-1:1.0" entries are interfaces.
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}

		d, err := parseDevice(filepath.Join(root, name))
		if err != nil {
			pkg.LogDebug(pkg.ComponentSysfs, "skipping entry", "name", name, "error", err)
			continue
		}
		devices = append(devices, d)
	}

	slices.SortFunc(devices, func(a, b Device) int {
		return cmp.Or(cmp.Compare(a.Bus, b.Bus), cmp.Compare(a.Num, b.Num))
	})
	pkg.LogDebug(pkg.ComponentSysfs, "scanned devices", "root", root, "count", len(devices))
	return devices, nil
}

func parseDevice(path string) (Device, error) {
	d := Device{Path: path}

	var err error
	if d.Bus, err = readUint8(filepath.Join(path, "busnum")); err != nil {
		return d, err
	}
	if d.Num, err = readUint8(filepath.Join(path, "devnum")); err != nil {
		return d, err
	}
	if d.VendorID, err = readHexUint16(filepath.Join(path, "idVendor")); err != nil {
		return d, err
	}
	if d.ProductID, err = readHexUint16(filepath.Join(path, "idProduct")); err != nil {
		return d, err
	}

	d.Class, _ = readHexUint8(filepath.Join(path, "bDeviceClass"))
	d.SubClass, _ = readHexUint8(filepath.Join(path, "bDeviceSubClass"))
	d.Protocol, _ = readHexUint8(filepath.Join(path, "bDeviceProtocol"))
	if s, err := readString(filepath.Join(path, "speed")); err == nil {
		d.Speed = ParseSpeed(s)
	}
	d.Manufacturer, _ = readString(filepath.Join(path, "manufacturer"))
	d.Product, _ = readString(filepath.Join(path, "product"))

	d.Interfaces = scanInterfaces(path)
	return d, nil
}

func scanInterfaces(devicePath string) []Interface {
	entries, err := os.ReadDir(devicePath)
	if err != nil {
		return nil
	}

	// Interface entries are named <device>:<config>.<interface>.
	prefix := filepath.Base(devicePath) + ":"

	var ifaces []Interface
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		i, err := parseInterface(filepath.Join(devicePath, entry.Name()))
		if err != nil {
			continue
		}
		ifaces = append(ifaces, i)
	}

	slices.SortFunc(ifaces, func(a, b Interface) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return ifaces
}

func parseInterface(path string) (Interface, error) {
	var i Interface

	var err error
	if i.Number, err = readHexUint8(filepath.Join(path, "bInterfaceNumber")); err != nil {
		return i, err
	}
	i.Class, _ = readHexUint8(filepath.Join(path, "bInterfaceClass"))
	i.SubClass, _ = readHexUint8(filepath.Join(path, "bInterfaceSubClass"))
	i.Protocol, _ = readHexUint8(filepath.Join(path, "bInterfaceProtocol"))

	if target, err := os.Readlink(filepath.Join(path, "driver")); err == nil {
		i.Driver = filepath.Base(target)
	}
	return i, nil
}

func readString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readUint8(path string) (uint8, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 8)
	return uint8(v), err
}

func readHex(path string, bitSize int) (uint64, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, bitSize)
}

func readHexUint8(path string) (uint8, error) {
	v, err := readHex(path, 8)
	return uint8(v), err
}

func readHexUint16(path string) (uint16, error) {
	v, err := readHex(path, 16)
	return uint16(v), err
}
