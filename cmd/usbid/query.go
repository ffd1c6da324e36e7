package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/usbid/pkg/usbid"
)

var errNotFound = errors.New("not found")

// record is one resolved level of a query.
type record struct {
	id   string
	name string
	val  any
}

// idBits lists the bit size of each ID level per section.
var idBits = map[usbid.Section][]int{
	usbid.SectionVendors:        {16, 16, 8},
	usbid.SectionClasses:        {8, 8, 8},
	usbid.SectionAudioTerminals: {16},
	usbid.SectionHIDDescriptors: {8},
	usbid.SectionHIDItemTypes:   {8},
	usbid.SectionBiases:         {8},
	usbid.SectionPhys:           {8},
	usbid.SectionHIDUsagePages:  {8, 16},
	usbid.SectionLanguages:      {16, 8},
	usbid.SectionCountryCodes:   {8},
	usbid.SectionVideoTerminals: {16},
}

// parseIDs parses a colon-separated path of hex IDs such as "1d6b:0002".
func parseIDs(s usbid.Section, path string) ([]uint64, error) {
	bits := idBits[s]
	parts := strings.Split(path, ":")
	if len(parts) > len(bits) {
		return nil, fmt.Errorf("%s takes at most %d IDs, got %d", s, len(bits), len(parts))
	}

	ids := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimPrefix(p, "0x"), 16, bits[i])
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q: %w", p, err)
		}
		ids[i] = v
	}
	return ids, nil
}

// resolve returns the records named by ids, outermost first.
func resolve(db *usbid.Database, s usbid.Section, ids []uint64) ([]record, error) {
	var (
		chain []record
		ok    bool
	)
	add := func(id string, name string, val any) {
		chain = append(chain, record{id: id, name: name, val: val})
	}

	switch s {
	case usbid.SectionVendors:
		var v *usbid.Vendor
		if v, ok = db.Vendor(uint16(ids[0])); ok {
			add(fmt.Sprintf("%04x", v.ID()), v.Name(), v)
		}
		if ok && len(ids) > 1 {
			var d *usbid.Device
			if d, ok = v.Device(uint16(ids[1])); ok {
				add(fmt.Sprintf("%04x", d.ID()), d.Name(), d)
			}
			if ok && len(ids) > 2 {
				var i *usbid.Interface
				if i, ok = d.Interface(uint8(ids[2])); ok {
					add(fmt.Sprintf("%02x", i.ID()), i.Name(), i)
				}
			}
		}
	case usbid.SectionClasses:
		var c *usbid.Class
		if c, ok = db.Class(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", c.ID()), c.Name(), c)
		}
		if ok && len(ids) > 1 {
			var sc *usbid.SubClass
			if sc, ok = c.SubClass(uint8(ids[1])); ok {
				add(fmt.Sprintf("%02x", sc.ID()), sc.Name(), sc)
			}
			if ok && len(ids) > 2 {
				var p *usbid.Protocol
				if p, ok = sc.Protocol(uint8(ids[2])); ok {
					add(fmt.Sprintf("%02x", p.ID()), p.Name(), p)
				}
			}
		}
	case usbid.SectionHIDUsagePages:
		var p *usbid.HIDUsagePage
		if p, ok = db.HIDUsagePage(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", p.ID()), p.Name(), p)
		}
		if ok && len(ids) > 1 {
			var u *usbid.HIDUsage
			if u, ok = p.Usage(uint16(ids[1])); ok {
				add(fmt.Sprintf("%03x", u.ID()), u.Name(), u)
			}
		}
	case usbid.SectionLanguages:
		var l *usbid.Language
		if l, ok = db.Language(uint16(ids[0])); ok {
			add(fmt.Sprintf("%04x", l.ID()), l.Name(), l)
		}
		if ok && len(ids) > 1 {
			var d *usbid.Dialect
			if d, ok = l.Dialect(uint8(ids[1])); ok {
				add(fmt.Sprintf("%02x", d.ID()), d.Name(), d)
			}
		}
	case usbid.SectionAudioTerminals:
		var r *usbid.AudioTerminal
		if r, ok = db.AudioTerminal(uint16(ids[0])); ok {
			add(fmt.Sprintf("%04x", r.ID()), r.Name(), r)
		}
	case usbid.SectionHIDDescriptors:
		var r *usbid.HID
		if r, ok = db.HID(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", r.ID()), r.Name(), r)
		}
	case usbid.SectionHIDItemTypes:
		var r *usbid.HIDItemType
		if r, ok = db.HIDItemType(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", r.ID()), r.Name(), r)
		}
	case usbid.SectionBiases:
		var r *usbid.Bias
		if r, ok = db.Bias(uint8(ids[0])); ok {
			add(fmt.Sprintf("%x", r.ID()), r.Name(), r)
		}
	case usbid.SectionPhys:
		var r *usbid.Phy
		if r, ok = db.Phy(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", r.ID()), r.Name(), r)
		}
	case usbid.SectionCountryCodes:
		var r *usbid.HIDCountryCode
		if r, ok = db.HIDCountryCode(uint8(ids[0])); ok {
			add(fmt.Sprintf("%02x", r.ID()), r.Name(), r)
		}
	case usbid.SectionVideoTerminals:
		var r *usbid.VideoTerminal
		if r, ok = db.VideoTerminal(uint16(ids[0])); ok {
			add(fmt.Sprintf("%04x", r.ID()), r.Name(), r)
		}
	default:
		return nil, fmt.Errorf("unknown section %q", s)
	}

	if !ok {
		return chain, fmt.Errorf("%s %s: %w", s, formatIDs(ids, len(chain)), errNotFound)
	}
	return chain, nil
}

func formatIDs(ids []uint64, upto int) string {
	parts := make([]string, 0, upto+1)
	for _, id := range ids[:min(upto+1, len(ids))] {
		parts = append(parts, strconv.FormatUint(id, 16))
	}
	return strings.Join(parts, ":")
}

// query parses a section name and ID path and resolves them against db.
func query(db *usbid.Database, section, path string) ([]record, error) {
	s, ok := usbid.ParseSection(section)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", section)
	}
	ids, err := parseIDs(s, path)
	if err != nil {
		return nil, err
	}
	return resolve(db, s, ids)
}

// formatChain renders resolved records one per line, indented by depth.
func formatChain(chain []record) string {
	var b strings.Builder
	for depth, r := range chain {
		fmt.Fprintf(&b, "%s%s  %s\n", strings.Repeat("\t", depth), r.id, r.name)
	}
	return b.String()
}
