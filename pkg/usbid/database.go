package usbid

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ardnew/usbid/pkg"
)

// DefaultPaths lists the standard locations for the USB ID database.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/var/lib/usbutils/usb.ids",
	"/usr/share/misc/usb.ids",
}

// Database holds the compiled tables of every section. It is immutable once
// returned by Compile, so all methods are safe for concurrent use.
type Database struct {
	vendors        *Table[uint16, *Vendor]
	classes        *Table[uint8, *Class]
	audioTerminals *Table[uint16, *AudioTerminal]
	hids           *Table[uint8, *HID]
	hidItemTypes   *Table[uint8, *HIDItemType]
	biases         *Table[uint8, *Bias]
	phys           *Table[uint8, *Phy]
	usagePages     *Table[uint8, *HIDUsagePage]
	languages      *Table[uint16, *Language]
	countryCodes   *Table[uint8, *HIDCountryCode]
	videoTerminals *Table[uint16, *VideoTerminal]

	source string
}

func newDatabase() *Database {
	return &Database{
		vendors:        emptyTable[uint16, *Vendor](),
		classes:        emptyTable[uint8, *Class](),
		audioTerminals: emptyTable[uint16, *AudioTerminal](),
		hids:           emptyTable[uint8, *HID](),
		hidItemTypes:   emptyTable[uint8, *HIDItemType](),
		biases:         emptyTable[uint8, *Bias](),
		phys:           emptyTable[uint8, *Phy](),
		usagePages:     emptyTable[uint8, *HIDUsagePage](),
		languages:      emptyTable[uint16, *Language](),
		countryCodes:   emptyTable[uint8, *HIDCountryCode](),
		videoTerminals: emptyTable[uint16, *VideoTerminal](),
	}
}

// Open compiles the first database file that exists among paths, searching
// DefaultPaths when none are given. It returns an error wrapping
// [pkg.ErrNoDatabase] if no file could be opened.
func Open(paths ...string) (*Database, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}

	for _, path := range paths {
		db, err := CompileFile(path)
		if err == nil {
			pkg.LogDebug(pkg.ComponentDatabase, "database loaded", "path", path)
			return db, nil
		}
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: searched %v", pkg.ErrNoDatabase, paths)
}

// Source returns the path the database was compiled from, or an empty string
// if it was compiled from a reader or a snapshot.
func (db *Database) Source() string {
	return db.source
}

// Len returns the number of top-level records in a section.
func (db *Database) Len(s Section) int {
	switch s {
	case SectionVendors:
		return db.vendors.Len()
	case SectionClasses:
		return db.classes.Len()
	case SectionAudioTerminals:
		return db.audioTerminals.Len()
	case SectionHIDDescriptors:
		return db.hids.Len()
	case SectionHIDItemTypes:
		return db.hidItemTypes.Len()
	case SectionBiases:
		return db.biases.Len()
	case SectionPhys:
		return db.phys.Len()
	case SectionHIDUsagePages:
		return db.usagePages.Len()
	case SectionLanguages:
		return db.languages.Len()
	case SectionCountryCodes:
		return db.countryCodes.Len()
	case SectionVideoTerminals:
		return db.videoTerminals.Len()
	default:
		return 0
	}
}

// =============================================================================
// Tables
// =============================================================================

// Vendors returns the vendor table.
func (db *Database) Vendors() *Table[uint16, *Vendor] { return db.vendors }

// Classes returns the device class table.
func (db *Database) Classes() *Table[uint8, *Class] { return db.classes }

// AudioTerminals returns the audio terminal type table.
func (db *Database) AudioTerminals() *Table[uint16, *AudioTerminal] { return db.audioTerminals }

// HIDs returns the HID descriptor type table.
func (db *Database) HIDs() *Table[uint8, *HID] { return db.hids }

// HIDItemTypes returns the HID item type table.
func (db *Database) HIDItemTypes() *Table[uint8, *HIDItemType] { return db.hidItemTypes }

// Biases returns the physical bias type table.
func (db *Database) Biases() *Table[uint8, *Bias] { return db.biases }

// Phys returns the physical item type table.
func (db *Database) Phys() *Table[uint8, *Phy] { return db.phys }

// HIDUsagePages returns the HID usage page table.
func (db *Database) HIDUsagePages() *Table[uint8, *HIDUsagePage] { return db.usagePages }

// Languages returns the language table.
func (db *Database) Languages() *Table[uint16, *Language] { return db.languages }

// HIDCountryCodes returns the HID country code table.
func (db *Database) HIDCountryCodes() *Table[uint8, *HIDCountryCode] { return db.countryCodes }

// VideoTerminals returns the video terminal type table.
func (db *Database) VideoTerminals() *Table[uint16, *VideoTerminal] { return db.videoTerminals }

// =============================================================================
// Point Lookups
// =============================================================================

// Vendor returns the vendor with the given ID.
func (db *Database) Vendor(vid uint16) (*Vendor, bool) {
	return db.vendors.Get(vid)
}

// Device returns the device with the given vendor and product IDs.
func (db *Database) Device(vid, pid uint16) (*Device, bool) {
	v, ok := db.vendors.Get(vid)
	if !ok {
		return nil, false
	}
	return v.Device(pid)
}

// Interface returns the interface with the given vendor, product and
// interface IDs.
func (db *Database) Interface(vid, pid uint16, id uint8) (*Interface, bool) {
	d, ok := db.Device(vid, pid)
	if !ok {
		return nil, false
	}
	return d.Interface(id)
}

// Class returns the class with the given ID.
func (db *Database) Class(cid uint8) (*Class, bool) {
	return db.classes.Get(cid)
}

// SubClass returns the subclass with the given class and subclass IDs.
func (db *Database) SubClass(cid, scid uint8) (*SubClass, bool) {
	c, ok := db.classes.Get(cid)
	if !ok {
		return nil, false
	}
	return c.SubClass(scid)
}

// Protocol returns the protocol with the given class, subclass and protocol
// IDs.
func (db *Database) Protocol(cid, scid, pid uint8) (*Protocol, bool) {
	s, ok := db.SubClass(cid, scid)
	if !ok {
		return nil, false
	}
	return s.Protocol(pid)
}

// AudioTerminal returns the audio terminal type with the given ID.
func (db *Database) AudioTerminal(id uint16) (*AudioTerminal, bool) {
	return db.audioTerminals.Get(id)
}

// HID returns the HID descriptor type with the given ID.
func (db *Database) HID(id uint8) (*HID, bool) {
	return db.hids.Get(id)
}

// HIDItemType returns the HID item type with the given ID.
func (db *Database) HIDItemType(id uint8) (*HIDItemType, bool) {
	return db.hidItemTypes.Get(id)
}

// Bias returns the bias type with the given ID.
func (db *Database) Bias(id uint8) (*Bias, bool) {
	return db.biases.Get(id)
}

// Phy returns the physical item type with the given ID.
func (db *Database) Phy(id uint8) (*Phy, bool) {
	return db.phys.Get(id)
}

// HIDUsagePage returns the usage page with the given ID.
func (db *Database) HIDUsagePage(page uint8) (*HIDUsagePage, bool) {
	return db.usagePages.Get(page)
}

// HIDUsage returns the usage with the given page and usage IDs.
func (db *Database) HIDUsage(page uint8, id uint16) (*HIDUsage, bool) {
	p, ok := db.usagePages.Get(page)
	if !ok {
		return nil, false
	}
	return p.Usage(id)
}

// Language returns the language with the given ID.
func (db *Database) Language(lid uint16) (*Language, bool) {
	return db.languages.Get(lid)
}

// Dialect returns the dialect with the given language and dialect IDs.
func (db *Database) Dialect(lid uint16, id uint8) (*Dialect, bool) {
	l, ok := db.languages.Get(lid)
	if !ok {
		return nil, false
	}
	return l.Dialect(id)
}

// HIDCountryCode returns the country code with the given ID.
func (db *Database) HIDCountryCode(id uint8) (*HIDCountryCode, bool) {
	return db.countryCodes.Get(id)
}

// VideoTerminal returns the video terminal type with the given ID.
func (db *Database) VideoTerminal(id uint16) (*VideoTerminal, bool) {
	return db.videoTerminals.Get(id)
}

// =============================================================================
// Parent Lookups
// =============================================================================

// VendorOf returns the vendor that owns d.
func (db *Database) VendorOf(d *Device) (*Vendor, bool) {
	return db.vendors.Get(d.vendorID)
}

// ClassOf returns the class that owns s.
func (db *Database) ClassOf(s *SubClass) (*Class, bool) {
	return db.classes.Get(s.classID)
}

// UsagePageOf returns the usage page that owns u.
func (db *Database) UsagePageOf(u *HIDUsage) (*HIDUsagePage, bool) {
	return db.usagePages.Get(u.pageID)
}

// LanguageOf returns the language that owns d.
func (db *Database) LanguageOf(d *Dialect) (*Language, bool) {
	return db.languages.Get(d.languageID)
}

// =============================================================================
// Name Lookups
// =============================================================================

// LookupVendor returns the vendor name for the given VID.
// Returns an empty string if the vendor is not found.
func (db *Database) LookupVendor(vid uint16) string {
	if v, ok := db.Vendor(vid); ok {
		return v.Name()
	}
	return ""
}

// LookupProduct returns the product name for the given VID/PID combination.
// Returns an empty string if the product is not found.
func (db *Database) LookupProduct(vid, pid uint16) string {
	if d, ok := db.Device(vid, pid); ok {
		return d.Name()
	}
	return ""
}

// LookupClass returns the most specific name known for a class triple:
// the protocol name if known, else the subclass name, else the class name.
// Returns an empty string if the class is not found.
func (db *Database) LookupClass(cid, scid, pid uint8) string {
	if p, ok := db.Protocol(cid, scid, pid); ok {
		return p.Name()
	}
	if s, ok := db.SubClass(cid, scid); ok {
		return s.Name()
	}
	if c, ok := db.Class(cid); ok {
		return c.Name()
	}
	return ""
}

// VendorCount returns the number of vendors in the database.
func (db *Database) VendorCount() int {
	return db.vendors.Len()
}

// ProductCount returns the number of products across all vendors.
func (db *Database) ProductCount() int {
	n := 0
	for v := range db.vendors.Values() {
		n += v.NumChildren()
	}
	return n
}

