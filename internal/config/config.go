// Package config loads the zentest configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFile = ".zentest.yaml"

// Config is one run's configuration snapshot.
type Config struct {
	// Reverse selects the suffix test-marker convention (FooTest).
	Reverse bool `yaml:"reverse"`

	// Debug enables debug-level discovery and warning output.
	Debug bool `yaml:"debug"`

	// Verbose lists discovered classes in the report.
	Verbose bool `yaml:"verbose"`

	// Symbols is an optional precomputed symbol table file.
	Symbols string `yaml:"symbols"`

	// Scan controls directory expansion.
	Scan ScanConfig `yaml:"scan"`

	// Diff holds options for the external output-diff tool. They are
	// accepted here so one file configures both tools.
	Diff DiffConfig `yaml:"diff"`
}

// ScanConfig controls which files a directory argument expands to.
type ScanConfig struct {
	// Include, when non-empty, restricts expansion to matching paths.
	Include []string `yaml:"include"`

	// Exclude drops matching paths.
	Exclude []string `yaml:"exclude"`

	// Extensions lists the source file extensions to pick up.
	Extensions []string `yaml:"extensions"`
}

// DiffConfig mirrors the diff tool's options.
type DiffConfig struct {
	KeepTempFiles    bool `yaml:"keep_temp_files"`
	LineNumbers      bool `yaml:"line_numbers"`
	Contextual       bool `yaml:"contextual"`
	Unified          bool `yaml:"unified"`
	IgnoreWhitespace bool `yaml:"ignore_whitespace"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude:    []string{"vendor/**", "tmp/**", ".git/**"},
			Extensions: []string{".rb"},
		},
	}
}

// Load reads the configuration at path on top of the defaults. An
// empty path loads DefaultFile if it exists and returns the defaults
// otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = DefaultConfig().Scan.Extensions
	}
	return cfg, nil
}
