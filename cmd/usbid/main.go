// usbid compiles, queries and exports the usb.ids database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ardnew/usbid/pkg"
	"github.com/ardnew/usbid/pkg/usbid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "usbid: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string, stdout, stderr io.Writer) error {
	switch cmd {
	case "compile":
		return runCompile(args, stdout, stderr)
	case "lookup":
		return runLookup(args, stdout, stderr)
	case "shell":
		return runShell(args, stdout, stderr)
	case "list":
		return runList(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usbid - usb.ids compiler

Usage:
  usbid <command> [options]

Commands:
  compile   Compile usb.ids and write a snapshot or Go source
  lookup    Look up one record by section and ID
  shell     Query the database interactively
  list      Name the USB devices attached to this host (Linux)

For command-specific help, run:
  usbid <command> -h`)
}

// sourceFlags selects where a command reads the database from.
type sourceFlags struct {
	input    string
	snapshot string
	level    string
	format   string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.input, "i", "", "usb.ids file (default: search standard locations)")
	fs.StringVar(&s.snapshot, "snapshot", "", "read a compiled snapshot instead of usb.ids")
	fs.StringVar(&s.level, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&s.format, "log-format", "text", "log format (text, json)")
}

func (s *sourceFlags) applyLog(stderr io.Writer) error {
	level, err := pkg.ParseLogLevel(s.level)
	if err != nil {
		return err
	}
	format, err := pkg.ParseLogFormat(s.format)
	if err != nil {
		return err
	}
	pkg.SetLogLevel(level)
	pkg.SetLogOutput(stderr, format)
	return nil
}

func (s *sourceFlags) open() (*usbid.Database, error) {
	switch {
	case s.snapshot != "":
		return readSnapshotFile(s.snapshot)
	case s.input != "":
		return usbid.CompileFile(s.input)
	default:
		return usbid.Default()
	}
}

func readSnapshotFile(path string) (*usbid.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := usbid.ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}
