package lsusb

import (
	"fmt"
	"strings"

	"github.com/ardnew/usbid/pkg/usbid"
)

// Speed is the negotiated bus speed of a device.
type Speed uint8

// Speed values.
const (
	SpeedUnknown Speed = iota
	SpeedLow
	SpeedFull
	SpeedHigh
	SpeedSuper
	SpeedSuperPlus
)

// ParseSpeed converts a sysfs speed attribute (in Mbit/s) to a Speed.
func ParseSpeed(s string) Speed {
	switch s {
	case "1.5":
		return SpeedLow
	case "12":
		return SpeedFull
	case "480":
		return SpeedHigh
	case "5000":
		return SpeedSuper
	case "10000", "20000":
		return SpeedSuperPlus
	default:
		return SpeedUnknown
	}
}

// String returns the speed as lsusb prints it.
func (s Speed) String() string {
	switch s {
	case SpeedLow:
		return "1.5M"
	case SpeedFull:
		return "12M"
	case SpeedHigh:
		return "480M"
	case SpeedSuper:
		return "5000M"
	case SpeedSuperPlus:
		return "10000M"
	default:
		return "unknown"
	}
}

// Device is a USB device found in sysfs.
type Device struct {
	Path      string // sysfs directory
	Bus       uint8
	Num       uint8
	VendorID  uint16
	ProductID uint16
	Class     uint8
	SubClass  uint8
	Protocol  uint8
	Speed     Speed

	// String descriptors reported by the device, if any.
	Manufacturer string
	Product      string

	Interfaces []Interface
}

// Interface is one interface of a device's active configuration.
type Interface struct {
	Number   uint8
	Class    uint8
	SubClass uint8
	Protocol uint8
	Driver   string
}

// Describe formats d as a single lsusb line:
//
//	Bus 001 Device 002: ID 1d6b:0002 Linux Foundation 2.0 root hub
//
// Names missing from db fall back to the device's string descriptors.
func Describe(db *usbid.Database, d Device) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bus %03d Device %03d: ID %04x:%04x", d.Bus, d.Num, d.VendorID, d.ProductID)

	vendor := db.LookupVendor(d.VendorID)
	if vendor == "" {
		vendor = d.Manufacturer
	}
	product := db.LookupProduct(d.VendorID, d.ProductID)
	if product == "" {
		product = d.Product
	}
	for _, s := range []string{vendor, product} {
		if s != "" {
			b.WriteByte(' ')
			b.WriteString(s)
		}
	}
	return b.String()
}

// DescribeInterface formats one interface of d with its class name and, when
// usb.ids lists interfaces for the device, the interface's own name.
func DescribeInterface(db *usbid.Database, d Device, i Interface) string {
	var b strings.Builder
	fmt.Fprintf(&b, "If %d: Class %02x/%02x/%02x", i.Number, i.Class, i.SubClass, i.Protocol)
	if name := db.LookupClass(i.Class, i.SubClass, i.Protocol); name != "" {
		fmt.Fprintf(&b, " %s", name)
	}
	if r, ok := db.Interface(d.VendorID, d.ProductID, i.Number); ok {
		fmt.Fprintf(&b, " (%s)", r.Name())
	}
	if i.Driver != "" {
		fmt.Fprintf(&b, ", Driver=%s", i.Driver)
	}
	fmt.Fprintf(&b, ", %s", d.Speed)
	return b.String()
}
