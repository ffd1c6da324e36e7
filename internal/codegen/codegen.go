// Package codegen renders a compiled database as Go source.
//
// The generated file declares the database as a *usbid.Snapshot literal and
// an accessor that rebuilds the *usbid.Database on first call, so programs
// can embed usb.ids without reading it at run time.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/ardnew/usbid/pkg"
	"github.com/ardnew/usbid/pkg/usbid"
)

// ImportPath is the import path of the usbid package referenced by generated
// code.
const ImportPath = "github.com/ardnew/usbid/pkg/usbid"

// Options control the generated source.
type Options struct {
	// Package is the package clause of the generated file.
	Package string

	// Var is the name of the snapshot variable.
	Var string

	// Func is the name of the accessor. Defaults to "Database".
	Func string

	// Source, if set, is recorded in the file header.
	Source string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "usbids"
	}
	if o.Var == "" {
		o.Var = "snapshot"
	}
	if o.Func == "" {
		o.Func = "Database"
	}
	return o
}

func (o Options) validate() error {
	for _, id := range []struct{ what, name string }{
		{"package", o.Package},
		{"var", o.Var},
		{"func", o.Func},
	} {
		if !token.IsIdentifier(id.name) {
			return fmt.Errorf("invalid %s name %q", id.what, id.name)
		}
	}
	if o.Var == o.Func {
		return fmt.Errorf("var and func must differ: %q", o.Var)
	}
	return nil
}

// Render returns the unformatted Go source for db.
func Render(db *usbid.Database, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	err := templates.ExecuteTemplate(&b, "file", fileData{
		Package: opts.Package,
		Var:     opts.Var,
		Func:    opts.Func,
		Import:  ImportPath,
		Source:  opts.Source,
		Snap:    db.Snapshot(),
	})
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return b.Bytes(), nil
}

// Generate returns the formatted Go source for db.
func Generate(db *usbid.Database, opts Options) ([]byte, error) {
	src, err := Render(db, opts)
	if err != nil {
		return nil, err
	}
	formatted, err := imports.Process("", src, nil)
	if err != nil {
		return nil, fmt.Errorf("goimports: %w", err)
	}
	return formatted, nil
}

// WriteFile generates source for db and writes it to path. When formatting
// fails the raw output is written to path+".broken".
func WriteFile(path string, db *usbid.Database, opts Options) error {
	opts = opts.withDefaults()
	src, err := Render(db, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		_ = os.WriteFile(path+".broken", src, 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return err
	}

	pkg.LogInfo(pkg.ComponentCodegen, "generated source",
		"path", path, "package", opts.Package, "bytes", len(formatted))
	return nil
}
