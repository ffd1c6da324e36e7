package usbid

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ardnew/usbid/pkg"
)

// maxLineSize bounds a single database line.
const maxLineSize = 1 << 20

// Parser compiles the database one line at a time.
//
// The file has no delimiters other than line prefixes: the active section is
// switched by header comments, and a nested record belongs to the most
// recently opened record one level up. A Parser tracks that state and flushes
// each top-level record into its section's table once a sibling or a section
// boundary closes it.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	section Section
	seen    [numSections]bool
	open    [maxDepth]*node
	sinks   [numSections]sink
	db      *Database
	line    int
	done    bool
}

// NewParser returns a parser positioned at the start of a file. Vendors are
// the first section and have no header, so they are active initially.
func NewParser() *Parser {
	p := &Parser{
		section: SectionVendors,
		sinks:   newSinks(),
		db:      newDatabase(),
	}
	p.seen[SectionVendors] = true
	return p
}

// Section returns the active section.
func (p *Parser) Section() Section {
	return p.section
}

// Line consumes the next line of input without its terminator.
func (p *Parser) Line(text string) error {
	if p.done {
		return fmt.Errorf("parser already finished")
	}
	p.line++

	// Headers look like comments, so they must be tested first.
	if next, ok := headerSection(text); ok {
		return p.header(next, text)
	}

	switch classify(text) {
	case lineBlank, lineComment:
		return nil
	}
	return p.record(text)
}

// Finish closes the active section and returns the compiled database.
// Sections absent from the input have empty tables.
func (p *Parser) Finish() (*Database, error) {
	if p.done {
		return nil, fmt.Errorf("parser already finished")
	}
	if err := p.finalize(); err != nil {
		return nil, err
	}
	p.done = true
	return p.db, nil
}

// header switches to the section opened by a header line.
func (p *Parser) header(next Section, text string) error {
	if p.seen[next] {
		return p.fail(text, pkg.ErrRepeatedSection)
	}
	if err := p.finalize(); err != nil {
		return err
	}

	pkg.LogDebug(pkg.ComponentParser, "section started",
		"section", next.String(),
		"line", p.line)

	p.section = next
	p.seen[next] = true
	return nil
}

// record parses a record line of the active section and attaches it at the
// depth given by its leading tabs.
func (p *Parser) record(text string) error {
	depth, rest := splitDepth(text)

	levels := grammars[p.section].levels
	if depth >= len(levels) {
		return p.fail(text, pkg.ErrNoGrammarMatch)
	}

	id, name, res := levels[depth].parse(rest)
	if res != matchOK {
		return p.mismatch(depth, rest, text, res)
	}

	n := &node{id: id, name: name, line: p.line, text: text}

	if depth == 0 {
		if err := p.flush(); err != nil {
			return err
		}
	} else {
		parent := p.open[depth-1]
		if parent == nil {
			return p.fail(text, pkg.ErrOrphanChild)
		}
		if err := parent.adopt(n); err != nil {
			return p.fail(text, err)
		}
	}

	// Opening a record closes every deeper one, so a later grandchild can
	// never attach to a previous parent's child.
	p.open[depth] = n
	clear(p.open[depth+1:])
	return nil
}

// mismatch picks the error for a record line that matched no grammar.
func (p *Parser) mismatch(depth int, rest, text string, res matchResult) error {
	if depth == 0 {
		if _, ok := claimedBy(p.section, rest); ok {
			return p.fail(text, pkg.ErrUnrecognizedHeader)
		}
	}
	if res == matchBadHex {
		return p.fail(text, pkg.ErrMalformedHex)
	}
	return p.fail(text, pkg.ErrNoGrammarMatch)
}

// flush moves the open top-level record, with its subtree, into the active
// section's table.
func (p *Parser) flush() error {
	n := p.open[0]
	if n == nil {
		return nil
	}
	clear(p.open[:])

	if err := p.sinks[p.section].flush(n); err != nil {
		return &pkg.ParseError{
			Line:    n.line,
			Section: p.section.String(),
			Text:    n.text,
			Err:     err,
		}
	}
	return nil
}

// finalize flushes any open record and builds the active section's table.
func (p *Parser) finalize() error {
	if err := p.flush(); err != nil {
		return err
	}

	s := p.sinks[p.section]
	if s == nil {
		return nil
	}
	pkg.LogDebug(pkg.ComponentParser, "section finished",
		"section", p.section.String(),
		"records", s.len())

	s.finish(p.db)
	p.sinks[p.section] = nil
	return nil
}

func (p *Parser) fail(text string, err error) error {
	return &pkg.ParseError{
		Line:    p.line,
		Section: p.section.String(),
		Text:    text,
		Err:     err,
	}
}

// Compile reads a complete database from r.
func Compile(r io.Reader) (*Database, error) {
	p := NewParser()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := p.Line(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", p.line+1, err)
	}

	db, err := p.Finish()
	if err != nil {
		return nil, err
	}

	pkg.LogInfo(pkg.ComponentParser, "database compiled",
		"lines", p.line,
		"vendors", db.vendors.Len(),
		"classes", db.classes.Len(),
		"usage_pages", db.usagePages.Len(),
		"languages", db.languages.Len())
	return db, nil
}

// CompileFile reads a complete database from the file at path.
func CompileFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := Compile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	db.source = path
	return db, nil
}
