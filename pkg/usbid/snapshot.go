package usbid

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ardnew/usbid/pkg"
)

// SnapshotVersion is the format version written by WriteSnapshot.
const SnapshotVersion = 1

// Record is the serialized form of a record without children.
type Record[T key] struct {
	ID   T      `cbor:"1,keyasint"`
	Name string `cbor:"2,keyasint"`
}

// ParentRecord is the serialized form of a record with leaf children.
type ParentRecord[T, C key] struct {
	ID       T           `cbor:"1,keyasint"`
	Name     string      `cbor:"2,keyasint"`
	Children []Record[C] `cbor:"3,keyasint,omitempty"`
}

// VendorRecord is the serialized form of a vendor, its devices and their
// interfaces.
type VendorRecord struct {
	ID      uint16                        `cbor:"1,keyasint"`
	Name    string                        `cbor:"2,keyasint"`
	Devices []ParentRecord[uint16, uint8] `cbor:"3,keyasint,omitempty"`
}

// ClassRecord is the serialized form of a class, its subclasses and their
// protocols.
type ClassRecord struct {
	ID         uint8                        `cbor:"1,keyasint"`
	Name       string                       `cbor:"2,keyasint"`
	SubClasses []ParentRecord[uint8, uint8] `cbor:"3,keyasint,omitempty"`
}

// Snapshot is a plain-data copy of a Database. Records within each section
// are in ascending ID order and children are in file order.
type Snapshot struct {
	Version         int                           `cbor:"1,keyasint"`
	Vendors         []VendorRecord                `cbor:"2,keyasint,omitempty"`
	Classes         []ClassRecord                 `cbor:"3,keyasint,omitempty"`
	AudioTerminals  []Record[uint16]              `cbor:"4,keyasint,omitempty"`
	HIDs            []Record[uint8]               `cbor:"5,keyasint,omitempty"`
	HIDItemTypes    []Record[uint8]               `cbor:"6,keyasint,omitempty"`
	Biases          []Record[uint8]               `cbor:"7,keyasint,omitempty"`
	Phys            []Record[uint8]               `cbor:"8,keyasint,omitempty"`
	HIDUsagePages   []ParentRecord[uint8, uint16] `cbor:"9,keyasint,omitempty"`
	Languages       []ParentRecord[uint16, uint8] `cbor:"10,keyasint,omitempty"`
	HIDCountryCodes []Record[uint8]               `cbor:"11,keyasint,omitempty"`
	VideoTerminals  []Record[uint16]              `cbor:"12,keyasint,omitempty"`
}

// Snapshot returns a plain-data copy of the database.
func (db *Database) Snapshot() *Snapshot {
	return &Snapshot{
		Version:         SnapshotVersion,
		Vendors:         collect(db.vendors, vendorRecord),
		Classes:         collect(db.classes, classRecord),
		AudioTerminals:  collect(db.audioTerminals, func(r *AudioTerminal) Record[uint16] { return recordOf(&r.Entry) }),
		HIDs:            collect(db.hids, func(r *HID) Record[uint8] { return recordOf(&r.Entry) }),
		HIDItemTypes:    collect(db.hidItemTypes, func(r *HIDItemType) Record[uint8] { return recordOf(&r.Entry) }),
		Biases:          collect(db.biases, func(r *Bias) Record[uint8] { return recordOf(&r.Entry) }),
		Phys:            collect(db.phys, func(r *Phy) Record[uint8] { return recordOf(&r.Entry) }),
		HIDUsagePages:   collect(db.usagePages, func(r *HIDUsagePage) ParentRecord[uint8, uint16] { return parentRecordOf[uint8, uint16](&r.Family) }),
		Languages:       collect(db.languages, func(r *Language) ParentRecord[uint16, uint8] { return parentRecordOf[uint16, uint8](&r.Family) }),
		HIDCountryCodes: collect(db.countryCodes, func(r *HIDCountryCode) Record[uint8] { return recordOf(&r.Entry) }),
		VideoTerminals:  collect(db.videoTerminals, func(r *VideoTerminal) Record[uint16] { return recordOf(&r.Entry) }),
	}
}

// FromSnapshot rebuilds a Database from a snapshot. Records pass through the
// same table builders as the text compiler, so duplicate IDs are rejected.
func FromSnapshot(s *Snapshot) (*Database, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", pkg.ErrSnapshotVersion, s.Version)
	}

	sinks := newSinks()
	db := newDatabase()

	load := func(section Section, roots []*node, err error) error {
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", section, err)
		}
		for _, n := range roots {
			if err := sinks[section].flush(n); err != nil {
				return fmt.Errorf("snapshot %s: %w", section, err)
			}
		}
		sinks[section].finish(db)
		return nil
	}

	steps := []struct {
		section Section
		build   func() ([]*node, error)
	}{
		{SectionVendors, func() ([]*node, error) { return vendorNodes(s.Vendors) }},
		{SectionClasses, func() ([]*node, error) { return classNodes(s.Classes) }},
		{SectionAudioTerminals, func() ([]*node, error) { return leafNodes(s.AudioTerminals), nil }},
		{SectionHIDDescriptors, func() ([]*node, error) { return leafNodes(s.HIDs), nil }},
		{SectionHIDItemTypes, func() ([]*node, error) { return leafNodes(s.HIDItemTypes), nil }},
		{SectionBiases, func() ([]*node, error) { return leafNodes(s.Biases), nil }},
		{SectionPhys, func() ([]*node, error) { return leafNodes(s.Phys), nil }},
		{SectionHIDUsagePages, func() ([]*node, error) { return parentNodes(s.HIDUsagePages) }},
		{SectionLanguages, func() ([]*node, error) { return parentNodes(s.Languages) }},
		{SectionCountryCodes, func() ([]*node, error) { return leafNodes(s.HIDCountryCodes), nil }},
		{SectionVideoTerminals, func() ([]*node, error) { return leafNodes(s.VideoTerminals), nil }},
	}
	for _, step := range steps {
		roots, err := step.build()
		if err := load(step.section, roots, err); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// =============================================================================
// CBOR Encoding
// =============================================================================

// snapshotEncMode is the CBOR encoder mode for snapshots. Canonical sorting
// makes equal databases encode to identical bytes.
var snapshotEncMode cbor.EncMode

// snapshotDecMode is the CBOR decoder mode for snapshots.
var snapshotDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	snapshotEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxArrayElements: 1 << 20,
	}
	snapshotDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// WriteSnapshot encodes the database as a CBOR snapshot to w.
func WriteSnapshot(w io.Writer, db *Database) error {
	if err := snapshotEncMode.NewEncoder(w).Encode(db.Snapshot()); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	pkg.LogDebug(pkg.ComponentSnapshot, "snapshot written",
		"vendors", db.vendors.Len(),
		"classes", db.classes.Len())
	return nil
}

// ReadSnapshot decodes a CBOR snapshot from r and rebuilds the database.
func ReadSnapshot(r io.Reader) (*Database, error) {
	var s Snapshot
	if err := snapshotDecMode.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	db, err := FromSnapshot(&s)
	if err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentSnapshot, "snapshot read",
		"vendors", db.vendors.Len(),
		"classes", db.classes.Len())
	return db, nil
}

// =============================================================================
// Conversion Helpers
// =============================================================================

func collect[K key, R, S any](t *Table[K, R], conv func(R) S) []S {
	out := make([]S, 0, t.Len())
	for r := range t.Values() {
		out = append(out, conv(r))
	}
	return out
}

func recordOf[T key](e *Entry[T]) Record[T] {
	return Record[T]{ID: e.id, Name: e.name}
}

func parentRecordOf[T, C key, L interface {
	ID() C
	Name() string
}](f *Family[T, L]) ParentRecord[T, C] {
	r := ParentRecord[T, C]{ID: f.id, Name: f.name, Children: make([]Record[C], len(f.children))}
	for i, c := range f.children {
		r.Children[i] = Record[C]{ID: c.ID(), Name: c.Name()}
	}
	return r
}

func vendorRecord(v *Vendor) VendorRecord {
	r := VendorRecord{ID: v.id, Name: v.name, Devices: make([]ParentRecord[uint16, uint8], len(v.children))}
	for i, d := range v.children {
		r.Devices[i] = parentRecordOf[uint16, uint8](&d.Family)
	}
	return r
}

func classRecord(c *Class) ClassRecord {
	r := ClassRecord{ID: c.id, Name: c.name, SubClasses: make([]ParentRecord[uint8, uint8], len(c.children))}
	for i, s := range c.children {
		r.SubClasses[i] = parentRecordOf[uint8, uint8](&s.Family)
	}
	return r
}

func leafNodes[T key](records []Record[T]) []*node {
	out := make([]*node, len(records))
	for i, r := range records {
		out[i] = &node{id: uint16(r.ID), name: r.Name}
	}
	return out
}

func parentNodes[T, C key](records []ParentRecord[T, C]) ([]*node, error) {
	out := make([]*node, len(records))
	for i, r := range records {
		n := &node{id: uint16(r.ID), name: r.Name}
		for _, c := range leafNodes(r.Children) {
			if err := n.adopt(c); err != nil {
				return nil, err
			}
		}
		out[i] = n
	}
	return out, nil
}

func vendorNodes(records []VendorRecord) ([]*node, error) {
	out := make([]*node, len(records))
	for i, r := range records {
		devices, err := parentNodes(r.Devices)
		if err != nil {
			return nil, err
		}
		n := &node{id: r.ID, name: r.Name}
		for _, d := range devices {
			if err := n.adopt(d); err != nil {
				return nil, err
			}
		}
		out[i] = n
	}
	return out, nil
}

func classNodes(records []ClassRecord) ([]*node, error) {
	out := make([]*node, len(records))
	for i, r := range records {
		subs, err := parentNodes(r.SubClasses)
		if err != nil {
			return nil, err
		}
		n := &node{id: uint16(r.ID), name: r.Name}
		for _, s := range subs {
			if err := n.adopt(s); err != nil {
				return nil, err
			}
		}
		out[i] = n
	}
	return out, nil
}
