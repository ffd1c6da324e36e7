package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ardnew/usbid/internal/codegen"
	"github.com/ardnew/usbid/internal/config"
	"github.com/ardnew/usbid/pkg"
	"github.com/ardnew/usbid/pkg/prof"
	"github.com/ardnew/usbid/pkg/usbid"
)

type compileOptions struct {
	config     string
	input      string
	goOut      string
	pkgName    string
	varName    string
	snapshot   string
	level      string
	format     string
	cpuProfile string
	memProfile string
	quiet      bool
}

func parseCompileArgs(args []string, stderr io.Writer) (compileOptions, map[string]bool, error) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts compileOptions
	fs.StringVar(&opts.config, "config", "", "YAML configuration file")
	fs.StringVar(&opts.input, "i", "", "usb.ids file (default: search standard locations)")
	fs.StringVar(&opts.goOut, "go", "", "write Go source to this path")
	fs.StringVar(&opts.pkgName, "pkg", "", "package name of the generated Go source")
	fs.StringVar(&opts.varName, "var", "", "variable name of the generated snapshot")
	fs.StringVar(&opts.snapshot, "snapshot", "", "write a CBOR snapshot to this path")
	fs.StringVar(&opts.level, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.format, "log-format", "", "log format (text, json)")
	fs.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile (requires -tags profile)")
	fs.StringVar(&opts.memProfile, "memprofile", "", "write a heap profile (requires -tags profile)")
	fs.BoolVar(&opts.quiet, "q", false, "do not print the section summary")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() > 0 {
		return opts, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// resolveConfig loads the configuration file, if any, and applies flags
// given on the command line over it.
func resolveConfig(opts compileOptions, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return nil, err
		}
	}

	if set["i"] {
		cfg.Input = opts.input
	}
	if set["go"] {
		cfg.Output.Go = opts.goOut
	}
	if set["pkg"] {
		cfg.Output.Package = opts.pkgName
	}
	if set["var"] {
		cfg.Output.Var = opts.varName
	}
	if set["snapshot"] {
		cfg.Output.Snapshot = opts.snapshot
	}
	if set["log-level"] {
		cfg.Log.Level = opts.level
	}
	if set["log-format"] {
		cfg.Log.Format = opts.format
	}
	return cfg, cfg.Validate()
}

func runCompile(args []string, stdout, stderr io.Writer) (err error) {
	opts, set, err := parseCompileArgs(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(opts, set)
	if err != nil {
		return err
	}
	if err := cfg.ApplyLog(); err != nil {
		return err
	}

	stop, err := prof.Start(opts.cpuProfile, opts.memProfile)
	if err != nil {
		return err
	}
	defer func() {
		if perr := stop(); perr != nil && err == nil {
			err = perr
		}
	}()

	db, err := usbid.Open(cfg.SearchPaths()...)
	if err != nil {
		return err
	}

	if cfg.Output.Snapshot != "" {
		if err := writeSnapshotFile(cfg.Output.Snapshot, db); err != nil {
			return err
		}
	}
	if cfg.Output.Go != "" {
		err := codegen.WriteFile(cfg.Output.Go, db, codegen.Options{
			Package: cfg.Output.Package,
			Var:     cfg.Output.Var,
			Source:  filepath.Base(db.Source()),
		})
		if err != nil {
			return err
		}
	}

	if !opts.quiet {
		return printSummary(stdout, db)
	}
	return nil
}

func writeSnapshotFile(path string, db *usbid.Database) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := usbid.WriteSnapshot(f, db); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	pkg.LogInfo(pkg.ComponentSnapshot, "wrote snapshot", "path", path)
	return nil
}

func printSummary(w io.Writer, db *usbid.Database) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\n", db.Source())
	for _, s := range usbid.Sections() {
		fmt.Fprintf(tw, "%s\t%d\n", s, db.Len(s))
	}
	fmt.Fprintf(tw, "products\t%d\n", db.ProductCount())
	return tw.Flush()
}
