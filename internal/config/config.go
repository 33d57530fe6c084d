// Package config loads screendiff's configuration from a cascade of sources. From lowest to highest priority: built-in defaults, the user file (~/.screendiff/config.yaml), the
// nearest project file (.screendiff/config.yaml, searched upward from the working directory), an explicitly named file, environment variables, and finally values set by the caller
// (ex: command-line flags) with Config.Set.
//
// Missing files are not errors. Unknown keys are ignored. A file that cannot be parsed is an error that names the file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codalotl/screendiff/internal/q/cascade"
)

// Config is screendiff's effective configuration.
type Config struct {
	Server       string        `yaml:"server"`         // analytics web server base URL
	Token        string        `yaml:"token"`          // bearer token sent to Server
	Color        string        `yaml:"color"`          // auto, always, or never
	Format       string        `yaml:"format"`         // text, side, json, markdown, or html
	LogFile      string        `yaml:"log_file"`       // empty disables logging
	LogLevel     string        `yaml:"log_level"`      // debug, info, warn, or error
	StorePath    string        `yaml:"store_path"`     // local screen store (SQLite)
	LCSCellLimit int           `yaml:"lcs_cell_limit"` // see diff.Differ.CellLimit
	Concurrency  int           `yaml:"concurrency"`    // parallel requests for multi-screen commands
	Timeout      time.Duration `yaml:"timeout"`        // per-request timeout

	// Sources records where each key's value came from. Keys never set by a source are absent.
	Sources map[string]Source `yaml:"-"`
}

// Source identifies where a configuration value came from.
type Source struct {
	Kind string // "default", "file", "env", or "flag"
	Name string // file path or environment variable name; empty for defaults
}

func (s Source) String() string {
	if s.Name == "" {
		return s.Kind
	}
	return s.Kind + " " + s.Name
}

// Keys lists the configuration keys in display order.
var Keys = []string{"server", "token", "color", "format", "log_file", "log_level", "store_path", "lcs_cell_limit", "concurrency", "timeout"}

// defaults are the built-in values, in the form a configuration file would hold them.
var defaults = map[string]any{
	"server":         "http://localhost:3000",
	"color":          "auto",
	"format":         "text",
	"log_level":      "info",
	"store_path":     "~/.screendiff/screens.db",
	"lcs_cell_limit": 4_000_000,
	"concurrency":    4,
	"timeout":        "30s",
}

// Default returns the built-in defaults. store_path is not expanded.
func Default() Config {
	cfg, err := load(cascade.New().WithDefaults(defaults))
	if err != nil {
		panic(fmt.Errorf("config: invalid defaults: %w", err))
	}
	return cfg
}

// Set sets key from its string form and records src as its source.
func (c *Config) Set(key, value string, src Source) error {
	switch key {
	case "server":
		c.Server = strings.TrimRight(value, "/")
	case "token":
		c.Token = value
	case "color":
		c.Color = value
	case "format":
		c.Format = value
	case "log_file":
		c.LogFile = value
	case "log_level":
		c.LogLevel = value
	case "store_path":
		c.StorePath = value
	case "lcs_cell_limit", "concurrency":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", key, value)
		}
		if key == "concurrency" {
			c.Concurrency = n
		} else {
			c.LCSCellLimit = n
		}
	case "timeout":
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	if c.Sources == nil {
		c.Sources = make(map[string]Source)
	}
	c.Sources[key] = src
	return nil
}

// Get returns the string form of key's value.
func (c *Config) Get(key string) (string, bool) {
	switch key {
	case "server":
		return c.Server, true
	case "token":
		return c.Token, true
	case "color":
		return c.Color, true
	case "format":
		return c.Format, true
	case "log_file":
		return c.LogFile, true
	case "log_level":
		return c.LogLevel, true
	case "store_path":
		return c.StorePath, true
	case "lcs_cell_limit":
		return strconv.Itoa(c.LCSCellLimit), true
	case "concurrency":
		return strconv.Itoa(c.Concurrency), true
	case "timeout":
		return c.Timeout.String(), true
	}
	return "", false
}

// Validate reports the first invalid value in c.
func (c *Config) Validate() error {
	if !oneOf(c.Color, "auto", "always", "never") {
		return fmt.Errorf("invalid configuration: color must be auto, always, or never (got %q)", c.Color)
	}
	if !oneOf(c.Format, "text", "side", "json", "markdown", "html") {
		return fmt.Errorf("invalid configuration: format must be text, side, json, markdown, or html (got %q)", c.Format)
	}
	if !oneOf(strings.ToLower(c.LogLevel), "", "debug", "info", "warn", "warning", "error") {
		return fmt.Errorf("invalid configuration: log_level must be debug, info, warn, or error (got %q)", c.LogLevel)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("invalid configuration: concurrency must be > 0 (got %d)", c.Concurrency)
	}
	if c.LCSCellLimit == 0 {
		return fmt.Errorf("invalid configuration: lcs_cell_limit must be > 0, or negative for no limit")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid configuration: timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.Server != "" && !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("invalid configuration: server must be an http or https URL (got %q)", c.Server)
	}
	return nil
}

func oneOf(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
