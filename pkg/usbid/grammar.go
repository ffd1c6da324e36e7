package usbid

import "strings"

// maxDepth is the deepest nesting any section allows.
const maxDepth = 3

// field describes the record grammar at one nesting depth: a literal token
// following the leading tabs, then exactly width hex digits, then two spaces
// and the name.
type field struct {
	prefix string
	width  int
}

// grammar describes how one section is introduced and how its records read.
type grammar struct {
	// header is the prefix of the comment line that opens the section.
	// Vendors come first in the file and have none.
	header string

	// levels holds the record grammar indexed by depth.
	levels []field
}

var grammars = [numSections]grammar{
	SectionVendors: {
		levels: []field{{"", 4}, {"", 4}, {"", 2}},
	},
	SectionClasses: {
		header: "# C class",
		levels: []field{{"C ", 2}, {"", 2}, {"", 2}},
	},
	SectionAudioTerminals: {
		header: "# AT terminal",
		levels: []field{{"AT ", 4}},
	},
	SectionHIDDescriptors: {
		header: "# HID descriptor",
		levels: []field{{"HID ", 2}},
	},
	SectionHIDItemTypes: {
		header: "# R item",
		levels: []field{{"R ", 2}},
	},
	SectionBiases: {
		header: "# BIAS ",
		levels: []field{{"BIAS ", 1}},
	},
	SectionPhys: {
		header: "# PHY ",
		levels: []field{{"PHY ", 2}},
	},
	SectionHIDUsagePages: {
		header: "# HUT ",
		levels: []field{{"HUT ", 2}, {"", 3}},
	},
	SectionLanguages: {
		header: "# L language",
		levels: []field{{"L ", 4}, {"", 2}},
	},
	SectionCountryCodes: {
		header: "# HCC country",
		levels: []field{{"HCC ", 2}},
	},
	SectionVideoTerminals: {
		header: "# VT terminal",
		levels: []field{{"VT ", 4}},
	},
}

// headerSection returns the section opened by a header line. Header prefixes
// are case-sensitive: "# HID Descriptor bCountryCode" is a comment, while
// "# HID descriptor_type" opens the HID descriptor section.
func headerSection(line string) (Section, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, false
	}
	for s, g := range grammars {
		if g.header != "" && strings.HasPrefix(line, g.header) {
			return Section(s), true
		}
	}
	return 0, false
}

// claimedBy returns the section, other than current, whose top-level grammar
// accepts a depth-0 line. Only sections with a prefix token are considered
// since the vendor grammar would claim any line starting with hex digits.
func claimedBy(current Section, rest string) (Section, bool) {
	for s, g := range grammars {
		if Section(s) == current || g.levels[0].prefix == "" {
			continue
		}
		if _, _, res := g.levels[0].parse(rest); res == matchOK {
			return Section(s), true
		}
	}
	return 0, false
}
