// Package config loads the usbid command configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ardnew/usbid/pkg"
	"github.com/ardnew/usbid/pkg/usbid"
)

// Config is the usbid command configuration.
type Config struct {
	// Input is the usb.ids file to compile. When empty, Paths are searched.
	Input string `yaml:"input"`

	// Paths are searched in order when Input is empty.
	Paths []string `yaml:"paths"`

	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
}

// Output selects the artifacts written by the compile command.
type Output struct {
	// Go is the path of the generated Go source file. Empty disables it.
	Go string `yaml:"go"`

	// Package is the package clause of the generated Go source.
	Package string `yaml:"package"`

	// Var is the name of the generated snapshot variable.
	Var string `yaml:"var"`

	// Snapshot is the path of the CBOR snapshot. Empty disables it.
	Snapshot string `yaml:"snapshot"`
}

// Log configures the shared logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: append([]string(nil), usbid.DefaultPaths...),
		Output: Output{
			Package: "usbids",
			Var:     "snapshot",
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Parse parses configuration from YAML bytes. Fields absent from data keep
// their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads and parses configuration from a file. Relative input and output
// paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Input = resolve(dir, cfg.Input)
	cfg.Output.Go = resolve(dir, cfg.Output.Go)
	cfg.Output.Snapshot = resolve(dir, cfg.Output.Snapshot)

	pkg.LogDebug(pkg.ComponentConfig, "config loaded", "path", path)
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := pkg.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := pkg.ParseLogFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	if c.Output.Go != "" && (c.Output.Package == "" || c.Output.Var == "") {
		return fmt.Errorf("output.go requires output.package and output.var")
	}
	return nil
}

// SearchPaths returns the files to try when compiling: Input alone if set,
// otherwise Paths.
func (c *Config) SearchPaths() []string {
	if c.Input != "" {
		return []string{c.Input}
	}
	return c.Paths
}

// ApplyLog configures the shared logger from the Log section.
func (c *Config) ApplyLog() error {
	level, err := pkg.ParseLogLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := pkg.ParseLogFormat(c.Log.Format)
	if err != nil {
		return err
	}
	pkg.SetLogLevel(level)
	pkg.SetLogFormat(format)
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
