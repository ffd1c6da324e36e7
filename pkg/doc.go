// Package pkg provides shared utilities for the usbid packages.
//
// This package contains common functionality used by the compiler, the
// query layer and the command-line tool, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for malformed database input
//   - [ParseError], which locates a failure in the source file
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentParser, "section compiled", "records", 42)
//
// # Errors
//
// Compile failures are reported as [*ParseError] values wrapping one of the
// sentinel errors:
//
//	if errors.Is(err, pkg.ErrDuplicateID) {
//	    // The input declares the same ID twice
//	}
package pkg
