// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const (
	// AppName names the configuration directory.
	AppName = "allgit"
	// FileName is the name of the configuration file inside the directory.
	FileName = "config.yaml"
	// XDGConfigHomeEnvVar overrides the base configuration directory.
	XDGConfigHomeEnvVar = "XDG_CONFIG_HOME"

	// DefaultExcerptLines is how many lines of standard error are shown per
	// failed repository in the summary.
	DefaultExcerptLines = 20
	// AutoWidth asks for the inline prefix width to follow the terminal.
	AutoWidth = -1
)

var (
	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidYaml is returned when the configuration file cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrReadFile is returned when the configuration file cannot be read.
	ErrReadFile = errors.New("failed to read configuration file")
)

// FsFactory returns the filesystem configuration files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// QuietLevel controls when the repository header is printed.
type QuietLevel int

const (
	// Quiet prints the header only when a repository produces output or fails.
	Quiet QuietLevel = iota
	// Verbose prints the header before every command.
	Verbose
)

// String returns the level as written in the configuration file.
func (q QuietLevel) String() string {
	if q == Verbose {
		return "verbose"
	}

	return "quiet"
}

// MarshalText implements encoding.TextMarshaler.
func (q QuietLevel) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QuietLevel) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "quiet", "":
		*q = Quiet
	case "verbose":
		*q = Verbose
	default:
		return fmt.Errorf("%w: unknown output level %q", ErrInvalidConfig, string(b))
	}

	return nil
}

// RunConfig is resolved once at start up and not modified afterwards.
type RunConfig struct {
	Command      []string   `yaml:"command,omitempty"`
	ListOnly     bool       `yaml:"list"`
	Quiet        QuietLevel `yaml:"output"`
	Inline       bool       `yaml:"inline"`
	Width        int        `yaml:"width"`
	Roots        []string   `yaml:"roots"`
	Include      []string   `yaml:"include,omitempty"`
	Exclude      []string   `yaml:"exclude,omitempty"`
	Nested       bool       `yaml:"nested"`
	Jobs         int        `yaml:"jobs"`
	LogFile      string     `yaml:"log,omitempty"`
	ExcerptLines int        `yaml:"excerptLines"`
}

// Default returns the built in configuration.
func Default() RunConfig {
	return RunConfig{
		Quiet:        Quiet,
		Roots:        []string{"."},
		Jobs:         1,
		ExcerptLines: DefaultExcerptLines,
	}
}

// DefaultPath returns the configuration file location, honouring
// XDG_CONFIG_HOME. It returns "" if no configuration directory is known.
func DefaultPath() string {
	base := os.Getenv(XDGConfigHomeEnvVar)
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ""
		}

		base = dir
	}

	return filepath.Join(base, AppName, FileName)
}

// Load returns the defaults overlaid with the file at path. A missing file
// is only an error when required is set.
func Load(path string, required bool) (RunConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("%w: %s: %v", ErrReadFile, path, err)
	}

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidYaml, path, err)
	}

	return cfg, nil
}

// Normalize fills in derived values. An empty command means list only.
func (c *RunConfig) Normalize() {
	if len(c.Command) == 0 {
		c.ListOnly = true
	}

	if len(c.Roots) == 0 {
		c.Roots = []string{"."}
	}
}

// Validate checks the ranges of numeric settings.
func (c RunConfig) Validate() error {
	var errs []error

	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, c.Jobs))
	}

	if c.Width < AutoWidth {
		errs = append(errs, fmt.Errorf("%w: width must be %d or more, got %d", ErrInvalidConfig, AutoWidth, c.Width))
	}

	if c.ExcerptLines < 0 {
		errs = append(errs, fmt.Errorf("%w: excerpt lines must not be negative, got %d", ErrInvalidConfig, c.ExcerptLines))
	}

	return errors.Join(errs...)
}

// YAML renders the configuration in the file format read by Load.
func (c RunConfig) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return b, nil
}
