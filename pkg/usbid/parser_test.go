package usbid

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/usbid/pkg"
)

func compileString(t *testing.T, input string) (*Database, error) {
	t.Helper()
	return Compile(strings.NewReader(input))
}

func mustCompile(t *testing.T, input string) *Database {
	t.Helper()
	db, err := compileString(t, input)
	require.NoError(t, err)
	return db
}

// requireParseError asserts that err is a ParseError wrapping want on line.
func requireParseError(t *testing.T, err error, want error, line int) *pkg.ParseError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want)

	var pe *pkg.ParseError
	require.True(t, errors.As(err, &pe), "error %v is not a *pkg.ParseError", err)
	assert.Equal(t, line, pe.Line, "ParseError.Line")
	return pe
}

func deviceNames(v *Vendor) []string {
	var names []string
	for d := range v.Devices() {
		names = append(names, d.Name())
	}
	return names
}

func TestCompile_Reparenting(t *testing.T) {
	db := mustCompile(t, "AAAA  VendorX\n"+
		"\t0001  Dev1\n"+
		"\t\t00  IfaceA\n"+
		"\t0002  Dev2\n"+
		"\t\t00  IfaceB\n")

	dev1, ok := db.Device(0xAAAA, 0x0001)
	require.True(t, ok)
	dev2, ok := db.Device(0xAAAA, 0x0002)
	require.True(t, ok)

	require.Equal(t, 1, dev1.NumChildren())
	require.Equal(t, 1, dev2.NumChildren())

	iface, ok := dev1.Interface(0x00)
	require.True(t, ok)
	assert.Equal(t, "IfaceA", iface.Name())

	iface, ok = dev2.Interface(0x00)
	require.True(t, ok)
	assert.Equal(t, "IfaceB", iface.Name())
}

func TestCompile_DeviceOrderAndBackReference(t *testing.T) {
	db := mustCompile(t, "1234  Vendor\n"+
		"\tffff  Last\n"+
		"\t0001  First\n"+
		"\t8000  Middle\n")

	v, ok := db.Vendor(0x1234)
	require.True(t, ok)
	assert.Equal(t, []string{"Last", "First", "Middle"}, deviceNames(v))

	for d := range v.Devices() {
		assert.Equal(t, v.ID(), d.VendorID())
		owner, ok := db.VendorOf(d)
		require.True(t, ok)
		assert.Same(t, v, owner)
	}
}

func TestCompile_LinuxFoundation(t *testing.T) {
	db := mustCompile(t, "1D6B  Linux Foundation\n\t0003  3.0 root hub\n")

	v, ok := db.Vendor(0x1D6B)
	require.True(t, ok)
	assert.Equal(t, "Linux Foundation", v.Name())

	d, ok := db.Device(0x1D6B, 0x0003)
	require.True(t, ok)
	assert.Equal(t, "3.0 root hub", d.Name())

	vid, pid := d.VIDPID()
	assert.Equal(t, uint16(0x1d6b), vid)
	assert.Equal(t, uint16(0x0003), pid)
}

func TestCompile_NamesVerbatim(t *testing.T) {
	db := mustCompile(t, "1234   Leading space\n"+
		"\t0001  Trailing space \n"+
		"\t0002  Inner  double\tand tab\n"+
		"\t0003  \n")

	tests := []struct {
		pid  uint16
		want string
	}{
		{0x0001, "Trailing space "},
		{0x0002, "Inner  double\tand tab"},
		{0x0003, ""},
	}
	assert.Equal(t, " Leading space", db.LookupVendor(0x1234))
	for _, tt := range tests {
		d, ok := db.Device(0x1234, tt.pid)
		require.True(t, ok, "device %#04x", tt.pid)
		assert.Equal(t, tt.want, d.Name())
	}
}

func TestCompile_CarriageReturnStripped(t *testing.T) {
	db := mustCompile(t, "1234  Windows\r\n\t0001  Line endings\r\n")
	assert.Equal(t, "Windows", db.LookupVendor(0x1234))
	assert.Equal(t, "Line endings", db.LookupProduct(0x1234, 0x0001))
}

func TestCompile_SectionIsolation(t *testing.T) {
	db := mustCompile(t, "0003  Vendor Three\n"+
		"# C class  class_name\n"+
		"C 03  Human Interface Device\n")

	v, ok := db.Vendor(0x0003)
	require.True(t, ok)
	assert.Equal(t, "Vendor Three", v.Name())

	c, ok := db.Class(0x03)
	require.True(t, ok)
	assert.Equal(t, "Human Interface Device", c.Name())

	assert.Equal(t, 1, db.VendorCount())
	assert.Equal(t, 1, db.Classes().Len())
}

func TestCompile_CommentsKeepRecordsOpen(t *testing.T) {
	db := mustCompile(t, "1234  Vendor\n"+
		"# typo?\n"+
		"\n"+
		"\t0001  Device\n"+
		"\t\t00  Interface\n")

	assert.Equal(t, "Device", db.LookupProduct(0x1234, 0x0001))
	iface, ok := db.Interface(0x1234, 0x0001, 0x00)
	require.True(t, ok)
	assert.Equal(t, "Interface", iface.Name())
}

func TestCompile_Empty(t *testing.T) {
	db := mustCompile(t, "# nothing but comments\n\n")
	for _, s := range Sections() {
		assert.Zero(t, db.Len(s), "section %v", s)
	}
	assert.Zero(t, db.ProductCount())
}

func TestCompile_HierarchicalSections(t *testing.T) {
	db := mustCompile(t, "# C class  class_name\n"+
		"C 03  Human Interface Device\n"+
		"\t01  Boot Interface Subclass\n"+
		"\t\t01  Keyboard\n"+
		"\t\t02  Mouse\n"+
		"C 07  Printer\n"+
		"\t01  Printer\n"+
		"\t\t01  Unidirectional\n"+
		"# HUT hi  _usage_page  hid_usage_page_name\n"+
		"HUT 0d  Digitizer\n"+
		"\t001  Digitizer\n"+
		"\t042  Tip Switch\n"+
		"# L language_id  language_name\n"+
		"L 0007  German\n"+
		"\t01  German\n"+
		"\t02  Swiss\n")

	p, ok := db.Protocol(0x03, 0x01, 0x02)
	require.True(t, ok)
	assert.Equal(t, "Mouse", p.Name())

	_, ok = db.Protocol(0x07, 0x01, 0x02)
	assert.False(t, ok, "printer must not inherit the HID protocols")

	sc, ok := db.SubClass(0x07, 0x01)
	require.True(t, ok)
	assert.Equal(t, uint8(0x07), sc.ClassID())
	cid, scid := sc.CIDSCID()
	assert.Equal(t, [2]uint8{0x07, 0x01}, [2]uint8{cid, scid})
	owner, ok := db.ClassOf(sc)
	require.True(t, ok)
	assert.Equal(t, "Printer", owner.Name())

	u, ok := db.HIDUsage(0x0d, 0x042)
	require.True(t, ok)
	assert.Equal(t, "Tip Switch", u.Name())
	assert.Equal(t, uint8(0x0d), u.PageID())
	page, ok := db.UsagePageOf(u)
	require.True(t, ok)
	assert.Equal(t, "Digitizer", page.Name())

	d, ok := db.Dialect(0x0007, 0x02)
	require.True(t, ok)
	assert.Equal(t, "Swiss", d.Name())
	lang, ok := db.LanguageOf(d)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0007), lang.ID())

	var dialects []uint8
	for d := range lang.Dialects() {
		dialects = append(dialects, d.ID())
	}
	assert.Equal(t, []uint8{0x01, 0x02}, dialects)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    error
		line    int
		section Section
	}{
		{
			name:    "duplicate vendor",
			input:   "AAAA  First\n\t0001  Device\nAAAA  Second\n",
			want:    pkg.ErrDuplicateID,
			line:    3,
			section: SectionVendors,
		},
		{
			name:    "duplicate vendor not last",
			input:   "AAAA  First\nAAAA  Second\nBBBB  Third\n",
			want:    pkg.ErrDuplicateID,
			line:    2,
			section: SectionVendors,
		},
		{
			name:    "duplicate device",
			input:   "1234  Vendor\n\t0001  A\n\t0001  B\n",
			want:    pkg.ErrDuplicateID,
			line:    3,
			section: SectionVendors,
		},
		{
			name:    "duplicate protocol",
			input:   "# C class  class_name\nC 03  HID\n\t01  Boot\n\t\t01  Keyboard\n\t\t01  Keyboard again\n",
			want:    pkg.ErrDuplicateID,
			line:    5,
			section: SectionClasses,
		},
		{
			name:    "duplicate bias",
			input:   "# BIAS item_type  item_type_name\nBIAS 1  Right Hand\nBIAS 1  Right Hand\n",
			want:    pkg.ErrDuplicateID,
			line:    3,
			section: SectionBiases,
		},
		{
			name:    "device before vendor",
			input:   "\t0001  Orphan\n",
			want:    pkg.ErrOrphanChild,
			line:    1,
			section: SectionVendors,
		},
		{
			name:    "interface directly under vendor",
			input:   "1234  Vendor\n\t\t00  Orphan\n",
			want:    pkg.ErrOrphanChild,
			line:    2,
			section: SectionVendors,
		},
		{
			name:    "interface after new vendor",
			input:   "1234  Vendor\n\t0001  Device\n5678  Next\n\t\t00  Orphan\n",
			want:    pkg.ErrOrphanChild,
			line:    4,
			section: SectionVendors,
		},
		{
			name:    "subclass after header",
			input:   "1234  Vendor\n\t0001  Device\n# C class  class_name\n\t01  Orphan\n",
			want:    pkg.ErrOrphanChild,
			line:    4,
			section: SectionClasses,
		},
		{
			name:    "usage without page",
			input:   "# HUT hi  _usage_page  hid_usage_page_name\n\t001  Pointer\n",
			want:    pkg.ErrOrphanChild,
			line:    2,
			section: SectionHIDUsagePages,
		},
		{
			name:    "five digit vendor",
			input:   "AAAAA  Name\n",
			want:    pkg.ErrMalformedHex,
			line:    1,
			section: SectionVendors,
		},
		{
			name:    "five digit device",
			input:   "AAAA  Vendor\n\tAAAAA  Name\n",
			want:    pkg.ErrMalformedHex,
			line:    2,
			section: SectionVendors,
		},
		{
			name:    "non-hex class",
			input:   "# C class  class_name\nC 0g  Bad\n",
			want:    pkg.ErrMalformedHex,
			line:    2,
			section: SectionClasses,
		},
		{
			name:    "single space separator",
			input:   "1234 Vendor\n",
			want:    pkg.ErrNoGrammarMatch,
			line:    1,
			section: SectionVendors,
		},
		{
			name:    "nested line in flat section",
			input:   "# AT terminal_type  terminal_type_name\nAT 0100  USB Undefined\n\t01  Nested\n",
			want:    pkg.ErrNoGrammarMatch,
			line:    3,
			section: SectionAudioTerminals,
		},
		{
			name:    "too deep",
			input:   "1234  Vendor\n\t0001  Device\n\t\t00  Interface\n\t\t\t00  Deeper\n",
			want:    pkg.ErrNoGrammarMatch,
			line:    4,
			section: SectionVendors,
		},
		{
			name:    "wrong section prefix",
			input:   "# AT terminal_type  terminal_type_name\nVX 0100  Unknown\n",
			want:    pkg.ErrNoGrammarMatch,
			line:    2,
			section: SectionAudioTerminals,
		},
		{
			name:    "class record without header",
			input:   "1234  Vendor\nC 03  Human Interface Device\n",
			want:    pkg.ErrUnrecognizedHeader,
			line:    2,
			section: SectionVendors,
		},
		{
			name:    "terminal record in wrong section",
			input:   "# HID descriptor_type  descriptor_type_item\nHID 21  HID\nVT 0100  USB Vendor Specific\n",
			want:    pkg.ErrUnrecognizedHeader,
			line:    3,
			section: SectionHIDDescriptors,
		},
		{
			name:    "repeated header",
			input:   "# C class  class_name\nC 03  HID\n# C class  class_name\n",
			want:    pkg.ErrRepeatedSection,
			line:    3,
			section: SectionClasses,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := compileString(t, tt.input)
			assert.Nil(t, db)
			pe := requireParseError(t, err, tt.want, tt.line)
			assert.Equal(t, tt.section.String(), pe.Section)

			lines := strings.Split(tt.input, "\n")
			assert.Equal(t, lines[tt.line-1], pe.Text, "ParseError.Text")
		})
	}
}

func TestParser_Section(t *testing.T) {
	p := NewParser()
	assert.Equal(t, SectionVendors, p.Section())

	steps := []struct {
		line string
		want Section
	}{
		{"1234  Vendor", SectionVendors},
		{"# List of known device classes, subclasses and protocols", SectionVendors},
		{"# C class  class_name", SectionClasses},
		{"C 03  HID", SectionClasses},
		{"# HID Descriptor bCountryCode", SectionClasses},
		{"# HCC country_code keymap_type", SectionCountryCodes},
		{"HCC 29  Switzerland", SectionCountryCodes},
	}
	for _, step := range steps {
		require.NoError(t, p.Line(step.line), "line %q", step.line)
		assert.Equal(t, step.want, p.Section(), "after %q", step.line)
	}

	db, err := p.Finish()
	require.NoError(t, err)

	hcc, ok := db.HIDCountryCode(0x29)
	require.True(t, ok)
	assert.Equal(t, "Switzerland", hcc.Name())

	_, err = p.Finish()
	assert.Error(t, err, "second Finish must fail")
	assert.Error(t, p.Line("5678  Late"), "Line after Finish must fail")
}

func TestCompile_SectionsInAnyOrder(t *testing.T) {
	db := mustCompile(t, "# VT terminal_type  terminal_type_name\n"+
		"VT 0100  USB Vendor Specific\n"+
		"# BIAS item_type  item_type_name\n"+
		"BIAS 4  Either Hand\n")

	vt, ok := db.VideoTerminal(0x0100)
	require.True(t, ok)
	assert.Equal(t, "USB Vendor Specific", vt.Name())

	b, ok := db.Bias(0x4)
	require.True(t, ok)
	assert.Equal(t, "Either Hand", b.Name())
}

func TestTable_AscendingOrder(t *testing.T) {
	db := mustCompile(t, "ffee  Z\n0001  A\n1d6b  M\n")

	keys := db.Vendors().Keys()
	assert.True(t, slices.IsSorted(keys), "Keys() = %v", keys)
	assert.Equal(t, []uint16{0x0001, 0x1d6b, 0xffee}, keys)

	var names []string
	for id, v := range db.Vendors().All() {
		assert.Equal(t, id, v.ID())
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"A", "M", "Z"}, names)

	keys[0] = 0x9999
	_, ok := db.Vendor(0x0001)
	assert.True(t, ok, "mutating Keys() result must not affect the table")
	assert.Equal(t, uint16(0x0001), db.Vendors().Keys()[0])
}
