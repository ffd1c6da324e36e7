package usbid

import (
	"iter"
	"slices"
)

// Entry is the ID and name shared by every record.
type Entry[T key] struct {
	id   T
	name string
}

// ID returns the record's numeric ID.
func (e *Entry[T]) ID() T {
	return e.id
}

// Name returns the record's name exactly as it appears in the database.
func (e *Entry[T]) Name() string {
	return e.name
}

func entryOf[T key](n *node) Entry[T] {
	return Entry[T]{id: T(n.id), name: n.name}
}

// Family is a record that owns an ordered list of child records.
type Family[T key, C any] struct {
	Entry[T]
	children []C
}

// Children iterates over the child records in file order.
func (f *Family[T, C]) Children() iter.Seq[C] {
	return slices.Values(f.children)
}

// NumChildren returns the number of child records.
func (f *Family[T, C]) NumChildren() int {
	return len(f.children)
}

func familyOf[T key, C any](n *node, child func(*node) C) Family[T, C] {
	f := Family[T, C]{Entry: entryOf[T](n), children: make([]C, len(n.children))}
	for i, c := range n.children {
		f.children[i] = child(c)
	}
	return f
}

// find returns the child with the given ID.
func find[K key, C interface{ ID() K }](children []C, id K) (C, bool) {
	for _, c := range children {
		if c.ID() == id {
			return c, true
		}
	}
	var zero C
	return zero, false
}

// =============================================================================
// Vendors
// =============================================================================

// Vendor is a USB vendor and its devices.
type Vendor struct {
	Family[uint16, *Device]
}

// Devices iterates over the vendor's devices in file order.
func (v *Vendor) Devices() iter.Seq[*Device] {
	return v.Children()
}

// Device returns the vendor's device with the given product ID.
func (v *Vendor) Device(pid uint16) (*Device, bool) {
	return find(v.children, pid)
}

// Device is a USB product and its interfaces.
type Device struct {
	Family[uint16, *Interface]
	vendorID uint16
}

// VendorID returns the ID of the vendor that owns the device.
func (d *Device) VendorID() uint16 {
	return d.vendorID
}

// VIDPID returns the device's vendor and product IDs.
func (d *Device) VIDPID() (uint16, uint16) {
	return d.vendorID, d.id
}

// Interfaces iterates over the device's interfaces in file order.
func (d *Device) Interfaces() iter.Seq[*Interface] {
	return d.Children()
}

// Interface returns the device's interface with the given ID.
func (d *Device) Interface(id uint8) (*Interface, bool) {
	return find(d.children, id)
}

// Interface is a named interface of a device.
type Interface struct {
	Entry[uint8]
}

func newVendor(n *node) *Vendor {
	vid := uint16(n.id)
	return &Vendor{familyOf[uint16](n, func(c *node) *Device {
		return &Device{
			Family: familyOf[uint16](c, func(i *node) *Interface {
				return &Interface{entryOf[uint8](i)}
			}),
			vendorID: vid,
		}
	})}
}

// =============================================================================
// Classes
// =============================================================================

// Class is a USB device class and its subclasses.
type Class struct {
	Family[uint8, *SubClass]
}

// SubClasses iterates over the class's subclasses in file order.
func (c *Class) SubClasses() iter.Seq[*SubClass] {
	return c.Children()
}

// SubClass returns the class's subclass with the given ID.
func (c *Class) SubClass(id uint8) (*SubClass, bool) {
	return find(c.children, id)
}

// SubClass is a USB device subclass and its protocols.
type SubClass struct {
	Family[uint8, *Protocol]
	classID uint8
}

// ClassID returns the ID of the class that owns the subclass.
func (s *SubClass) ClassID() uint8 {
	return s.classID
}

// CIDSCID returns the subclass's class and subclass IDs.
func (s *SubClass) CIDSCID() (uint8, uint8) {
	return s.classID, s.id
}

// Protocols iterates over the subclass's protocols in file order.
func (s *SubClass) Protocols() iter.Seq[*Protocol] {
	return s.Children()
}

// Protocol returns the subclass's protocol with the given ID.
func (s *SubClass) Protocol(id uint8) (*Protocol, bool) {
	return find(s.children, id)
}

// Protocol is a USB device protocol.
type Protocol struct {
	Entry[uint8]
}

func newClass(n *node) *Class {
	cid := uint8(n.id)
	return &Class{familyOf[uint8](n, func(c *node) *SubClass {
		return &SubClass{
			Family: familyOf[uint8](c, func(p *node) *Protocol {
				return &Protocol{entryOf[uint8](p)}
			}),
			classID: cid,
		}
	})}
}

// =============================================================================
// HID usages
// =============================================================================

// HIDUsagePage is a HID usage page and its usages.
type HIDUsagePage struct {
	Family[uint8, *HIDUsage]
}

// Usages iterates over the page's usages in file order.
func (p *HIDUsagePage) Usages() iter.Seq[*HIDUsage] {
	return p.Children()
}

// Usage returns the page's usage with the given ID.
func (p *HIDUsagePage) Usage(id uint16) (*HIDUsage, bool) {
	return find(p.children, id)
}

// HIDUsage is a usage within a HID usage page.
type HIDUsage struct {
	Entry[uint16]
	pageID uint8
}

// PageID returns the ID of the usage page that owns the usage.
func (u *HIDUsage) PageID() uint8 {
	return u.pageID
}

func newHIDUsagePage(n *node) *HIDUsagePage {
	page := uint8(n.id)
	return &HIDUsagePage{familyOf[uint8](n, func(c *node) *HIDUsage {
		return &HIDUsage{Entry: entryOf[uint16](c), pageID: page}
	})}
}

// =============================================================================
// Languages
// =============================================================================

// Language is a USB language ID and its dialects.
type Language struct {
	Family[uint16, *Dialect]
}

// Dialects iterates over the language's dialects in file order.
func (l *Language) Dialects() iter.Seq[*Dialect] {
	return l.Children()
}

// Dialect returns the language's dialect with the given ID.
func (l *Language) Dialect(id uint8) (*Dialect, bool) {
	return find(l.children, id)
}

// Dialect is a dialect of a language.
type Dialect struct {
	Entry[uint8]
	languageID uint16
}

// LanguageID returns the ID of the language that owns the dialect.
func (d *Dialect) LanguageID() uint16 {
	return d.languageID
}

func newLanguage(n *node) *Language {
	lid := uint16(n.id)
	return &Language{familyOf[uint16](n, func(c *node) *Dialect {
		return &Dialect{Entry: entryOf[uint8](c), languageID: lid}
	})}
}

// =============================================================================
// Flat sections
// =============================================================================

// AudioTerminal is an audio class terminal type.
type AudioTerminal struct{ Entry[uint16] }

// HID is a HID descriptor type.
type HID struct{ Entry[uint8] }

// HIDItemType is a HID descriptor item type.
type HIDItemType struct{ Entry[uint8] }

// Bias is a physical descriptor bias type.
type Bias struct{ Entry[uint8] }

// Phy is a physical descriptor item type.
type Phy struct{ Entry[uint8] }

// HIDCountryCode is a HID descriptor country code.
type HIDCountryCode struct{ Entry[uint8] }

// VideoTerminal is a video class terminal type.
type VideoTerminal struct{ Entry[uint16] }
