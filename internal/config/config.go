// Package config loads and validates analysis configurations.
//
// A configuration names one or more conversions. Each conversion pairs a
// source format with a target format and lists groups of files, one group
// per observed event:
//
//	[global]
//	name_format = "yyyymmdd-hhmmss-sn-n"
//
//	[[conversion]]
//	name = "noto"
//	from = "jp_nied_knet"
//	to   = "jp_stera3d_txt"
//
//	[[conversion.group]]
//	files = [
//	  { path = "ISK0052401011610.NS", acc_axis = "ns" },
//	  { path = "ISK0052401011610.EW", acc_axis = "ew" },
//	  { path = "ISK0052401011610.UD", acc_axis = "ud" },
//	]
//
// Load decodes and schema-checks a file; Validate reports every semantic
// problem at once; Units flattens a valid configuration into processable
// units in file order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/naifuru/naifuru/internal/ir"
)

// Config is a decoded analysis configuration.
type Config struct {
	Global      Global       `toml:"global" yaml:"global" json:"global"`
	Conversions []Conversion `toml:"conversion" yaml:"conversion" json:"conversion"`

	// Dir is the directory relative file paths resolve against.
	Dir string `toml:"-" yaml:"-" json:"-"`
}

// Global holds settings shared by every conversion.
type Global struct {
	NameFormat ir.NameFormat `toml:"name_format" yaml:"name_format" json:"name_format"`
}

// Conversion is one named conversion plan.
type Conversion struct {
	Name   string          `toml:"name" yaml:"name" json:"name"`
	From   ir.SourceFormat `toml:"from" yaml:"from" json:"from"`
	To     ir.TargetFormat `toml:"to" yaml:"to" json:"to"`
	Groups []Group         `toml:"group" yaml:"group" json:"group"`
}

// Group is the set of files recording one event.
type Group struct {
	Files []File `toml:"files" yaml:"files" json:"files"`
}

// File is one input file. AccAxis is set only for multi-axis formats.
type File struct {
	Path    string     `toml:"path" yaml:"path" json:"path"`
	AccAxis ir.AccAxis `toml:"acc_axis,omitempty" yaml:"acc_axis,omitempty" json:"acc_axis,omitempty"`
}

// ParseError reports a configuration that could not be decoded or does not
// match the schema.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extensions lists the configuration file extensions Load accepts.
func Extensions() []string {
	return []string{"toml", "yaml", "yml"}
}

// Load reads, decodes and schema-checks the configuration at path.
// Read failures are returned as-is (wrapped); decode and schema failures
// are *ParseError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.Dir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes data in the given format ("toml", "yaml" or "yml") and
// checks it against the configuration schema.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := CheckSchema(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve returns p joined to the config directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
