package usbid

import (
	"strconv"
	"strings"
)

// lineKind classifies a raw input line.
type lineKind int

const (
	lineBlank   lineKind = iota // Empty or whitespace only
	lineComment                 // Starts with '#'
	lineRecord                  // Anything else
)

// classify returns the kind of a raw line. Header detection is separate and
// happens before classification, since headers are comments too.
func classify(line string) lineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return lineBlank
	case line[0] == '#':
		return lineComment
	default:
		return lineRecord
	}
}

// splitDepth strips leading tabs, returning their count and the remainder.
func splitDepth(line string) (int, string) {
	n := 0
	for n < len(line) && line[n] == '\t' {
		n++
	}
	return n, line[n:]
}

// matchResult reports how far a record line got through a grammar.
type matchResult int

const (
	matchOK     matchResult = iota // Prefix, ID and separator all matched
	matchNone                      // Prefix or separator did not match
	matchBadHex                    // Prefix matched but the ID field did not
)

// parse matches a line with its leading tabs removed against the field
// grammar. The name is everything after the two-space separator, verbatim.
func (f field) parse(rest string) (uint16, string, matchResult) {
	if !strings.HasPrefix(rest, f.prefix) {
		return 0, "", matchNone
	}
	s := rest[len(f.prefix):]

	n := 0
	for n < len(s) && isHexDigit(s[n]) {
		n++
	}
	if n != f.width {
		return 0, "", matchBadHex
	}
	if !strings.HasPrefix(s[n:], "  ") {
		return 0, "", matchNone
	}

	id, err := strconv.ParseUint(s[:n], 16, 16)
	if err != nil {
		return 0, "", matchBadHex
	}
	return uint16(id), s[n+2:], matchOK
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
