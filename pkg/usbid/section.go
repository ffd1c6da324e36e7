package usbid

// Section identifies one of the independent top-level parts of the database.
type Section int

// Database sections, in the order they appear in usb.ids.
const (
	SectionVendors        Section = iota // Vendors, devices, interfaces
	SectionClasses                       // Classes, subclasses, protocols
	SectionAudioTerminals                // Audio class terminal types
	SectionHIDDescriptors                // HID descriptor types
	SectionHIDItemTypes                  // HID descriptor item types
	SectionBiases                        // Physical descriptor bias types
	SectionPhys                          // Physical descriptor item types
	SectionHIDUsagePages                 // HID usage pages and usages
	SectionLanguages                     // Languages and dialects
	SectionCountryCodes                  // HID descriptor country codes
	SectionVideoTerminals                // Video class terminal types

	numSections
)

// Sections returns every section in file order.
func Sections() []Section {
	s := make([]Section, numSections)
	for i := range s {
		s[i] = Section(i)
	}
	return s
}

// String returns a string representation of the section.
func (s Section) String() string {
	switch s {
	case SectionVendors:
		return "vendors"
	case SectionClasses:
		return "classes"
	case SectionAudioTerminals:
		return "audio-terminals"
	case SectionHIDDescriptors:
		return "hid-descriptors"
	case SectionHIDItemTypes:
		return "hid-item-types"
	case SectionBiases:
		return "biases"
	case SectionPhys:
		return "phys"
	case SectionHIDUsagePages:
		return "hid-usage-pages"
	case SectionLanguages:
		return "languages"
	case SectionCountryCodes:
		return "country-codes"
	case SectionVideoTerminals:
		return "video-terminals"
	default:
		return "unknown"
	}
}

// ParseSection returns the section whose String matches name.
func ParseSection(name string) (Section, bool) {
	for _, s := range Sections() {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Depth returns the number of nesting levels a section's records may have:
// 1 for flat sections, 2 for parent/child sections and 3 for vendors and
// classes.
func (s Section) Depth() int {
	if s < 0 || s >= numSections {
		return 0
	}
	return len(grammars[s].levels)
}
