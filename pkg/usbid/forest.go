package usbid

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ardnew/usbid/pkg"
)

// key is the set of numeric ID types used by database tables.
type key interface {
	~uint8 | ~uint16
}

// node is a record under construction. Nodes are mutable only while open;
// flushing converts a top-level node and its subtree into typed records.
type node struct {
	id       uint16
	name     string
	line     int
	text     string
	children []*node
}

// adopt appends child to n, rejecting an ID already used by a sibling.
// Fan-out is small, so a linear scan is enough.
func (n *node) adopt(child *node) error {
	for _, c := range n.children {
		if c.id == child.id {
			return fmt.Errorf("%w: %#x under %#x (first defined on line %d)",
				pkg.ErrDuplicateID, child.id, n.id, c.line)
		}
	}
	n.children = append(n.children, child)
	return nil
}

// Table is an immutable map from ID to record for one section.
type Table[K key, R any] struct {
	records map[K]R
	keys    []K
}

// Get returns the record with the given ID.
func (t *Table[K, R]) Get(id K) (R, bool) {
	r, ok := t.records[id]
	return r, ok
}

// Len returns the number of records in the table.
func (t *Table[K, R]) Len() int {
	return len(t.keys)
}

// Keys returns the IDs in ascending order.
func (t *Table[K, R]) Keys() []K {
	return slices.Clone(t.keys)
}

// All iterates over the records in ascending ID order.
func (t *Table[K, R]) All() iter.Seq2[K, R] {
	return func(yield func(K, R) bool) {
		for _, k := range t.keys {
			if !yield(k, t.records[k]) {
				return
			}
		}
	}
}

// Values iterates over the records in ascending ID order.
func (t *Table[K, R]) Values() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, k := range t.keys {
			if !yield(t.records[k]) {
				return
			}
		}
	}
}

func emptyTable[K key, R any]() *Table[K, R] {
	return &Table[K, R]{records: map[K]R{}}
}

// builder accumulates flushed records for one section.
type builder[K key, R any] struct {
	records map[K]R
	keys    []K
}

func newBuilder[K key, R any]() *builder[K, R] {
	return &builder[K, R]{records: make(map[K]R)}
}

// insert stores a flushed record. A duplicate key is an input error.
func (b *builder[K, R]) insert(id K, r R) error {
	if _, ok := b.records[id]; ok {
		return fmt.Errorf("%w: %#x", pkg.ErrDuplicateID, id)
	}
	b.records[id] = r
	b.keys = append(b.keys, id)
	return nil
}

// build hands the accumulated records off as a Table. The builder must not
// be used afterwards.
func (b *builder[K, R]) build() *Table[K, R] {
	slices.Sort(b.keys)
	t := &Table[K, R]{records: b.records, keys: b.keys}
	b.records, b.keys = nil, nil
	return t
}

// sink converts flushed top-level nodes into one section's typed table.
type sink interface {
	flush(n *node) error
	len() int
	finish(db *Database)
}

type sectionSink[K key, R any] struct {
	b       *builder[K, R]
	convert func(*node) R
	assign  func(*Database, *Table[K, R])
}

func newSink[K key, R any](convert func(*node) R, assign func(*Database, *Table[K, R])) sink {
	return &sectionSink[K, R]{b: newBuilder[K, R](), convert: convert, assign: assign}
}

func (s *sectionSink[K, R]) flush(n *node) error {
	return s.b.insert(K(n.id), s.convert(n))
}

func (s *sectionSink[K, R]) len() int {
	return len(s.b.keys)
}

func (s *sectionSink[K, R]) finish(db *Database) {
	s.assign(db, s.b.build())
}

// newSinks returns a fresh sink for every section.
func newSinks() [numSections]sink {
	return [numSections]sink{
		SectionVendors: newSink(newVendor,
			func(db *Database, t *Table[uint16, *Vendor]) { db.vendors = t }),
		SectionClasses: newSink(newClass,
			func(db *Database, t *Table[uint8, *Class]) { db.classes = t }),
		SectionAudioTerminals: newSink(func(n *node) *AudioTerminal { return &AudioTerminal{entryOf[uint16](n)} },
			func(db *Database, t *Table[uint16, *AudioTerminal]) { db.audioTerminals = t }),
		SectionHIDDescriptors: newSink(func(n *node) *HID { return &HID{entryOf[uint8](n)} },
			func(db *Database, t *Table[uint8, *HID]) { db.hids = t }),
		SectionHIDItemTypes: newSink(func(n *node) *HIDItemType { return &HIDItemType{entryOf[uint8](n)} },
			func(db *Database, t *Table[uint8, *HIDItemType]) { db.hidItemTypes = t }),
		SectionBiases: newSink(func(n *node) *Bias { return &Bias{entryOf[uint8](n)} },
			func(db *Database, t *Table[uint8, *Bias]) { db.biases = t }),
		SectionPhys: newSink(func(n *node) *Phy { return &Phy{entryOf[uint8](n)} },
			func(db *Database, t *Table[uint8, *Phy]) { db.phys = t }),
		SectionHIDUsagePages: newSink(newHIDUsagePage,
			func(db *Database, t *Table[uint8, *HIDUsagePage]) { db.usagePages = t }),
		SectionLanguages: newSink(newLanguage,
			func(db *Database, t *Table[uint16, *Language]) { db.languages = t }),
		SectionCountryCodes: newSink(func(n *node) *HIDCountryCode { return &HIDCountryCode{entryOf[uint8](n)} },
			func(db *Database, t *Table[uint8, *HIDCountryCode]) { db.countryCodes = t }),
		SectionVideoTerminals: newSink(func(n *node) *VideoTerminal { return &VideoTerminal{entryOf[uint16](n)} },
			func(db *Database, t *Table[uint16, *VideoTerminal]) { db.videoTerminals = t }),
	}
}
