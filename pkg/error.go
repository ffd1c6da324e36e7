package pkg

import (
	"errors"
	"fmt"
)

// USB ID database errors.
var (
	// ErrUnrecognizedHeader indicates a section header naming no known section.
	ErrUnrecognizedHeader = errors.New("unrecognized section header")

	// ErrNoGrammarMatch indicates a record line matching no grammar of the
	// current section.
	ErrNoGrammarMatch = errors.New("line matches no grammar in section")

	// ErrOrphanChild indicates a nested record with no open parent.
	ErrOrphanChild = errors.New("record has no parent")

	// ErrDuplicateID indicates two records in the same scope share an ID.
	ErrDuplicateID = errors.New("duplicate ID")

	// ErrMalformedHex indicates an ID field with non-hex characters or the
	// wrong number of digits.
	ErrMalformedHex = errors.New("malformed hex ID")

	// ErrRepeatedSection indicates a section header seen more than once.
	ErrRepeatedSection = errors.New("section repeated")

	// ErrNoDatabase indicates no database file exists on any search path.
	ErrNoDatabase = errors.New("database not found")

	// ErrSnapshotVersion indicates a snapshot with an unsupported format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)

// ParseError describes the input line that aborted a compile.
type ParseError struct {
	Line    int    // 1-based line number
	Section string // Active section when the line was read
	Text    string // Raw line text
	Err     error  // One of the sentinel errors above
}

// Error returns a description including line number, section and raw text.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (%s): %v: %q", e.Line, e.Section, e.Err, e.Text)
}

// Unwrap returns the underlying sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
