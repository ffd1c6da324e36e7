package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// dumper prints records for -dump. MaxDepth keeps a vendor dump readable.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                4,
}

func runLookup(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: usbid lookup [options] <section> <id>[:<id>[:<id>]]

Sections:
  vendors, classes, audio-terminals, hid-descriptors, hid-item-types,
  biases, phys, hid-usage-pages, languages, country-codes, video-terminals

Examples:
  usbid lookup vendors 1d6b:0002
  usbid lookup classes 03:01:01
  usbid lookup -dump hid-usage-pages 01:006

Options:`)
		fs.PrintDefaults()
	}

	var src sourceFlags
	src.register(fs)
	dump := fs.Bool("dump", false, "dump the most specific record's Go value")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("lookup requires a section and an ID")
	}
	if err := src.applyLog(stderr); err != nil {
		return err
	}

	db, err := src.open()
	if err != nil {
		return err
	}

	chain, err := query(db, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, formatChain(chain))
	if *dump {
		dumper.Fdump(stdout, chain[len(chain)-1].val)
	}
	return nil
}
