// Package config loads the optional apidocfm.yaml configuration.
//
// A missing file is not an error: every key has a default matching the docs
// site layout, so the tool runs with zero configuration.
package config

import (
	"git.home.luguber.info/inful/apidocfm/internal/category"
)

// CurrentVersion is the only configuration schema version understood.
const CurrentVersion = "1"

// DefaultPath is looked up when no -c/--config flag is given.
const DefaultPath = "apidocfm.yaml"

// Defaults for keys that may be omitted.
const (
	DefaultRoot    = "content/docs/api"
	DefaultProduct = "OpenSeadragon"
)

// Config is the top-level configuration document.
type Config struct {
	Version      string          `yaml:"version"`
	Root         string          `yaml:"root"`
	Product      string          `yaml:"product"`
	OrderSpacing int             `yaml:"order_spacing"`
	Categories   []CategoryEntry `yaml:"categories,omitempty"`
	Strip        StripConfig     `yaml:"strip"`
	Logging      LoggingConfig   `yaml:"logging"`
	Metrics      MetricsConfig   `yaml:"metrics"`

	// source is the file the configuration was read from, empty for defaults.
	source string
}

// CategoryEntry overrides one folder of the classification table.
// BaseOrder 0 means spacing × position (1-based).
type CategoryEntry struct {
	Folder    string `yaml:"folder"`
	Title     string `yaml:"title"`
	Badge     string `yaml:"badge"`
	BaseOrder int    `yaml:"base_order,omitempty"`
}

// StripConfig controls the strip operation.
type StripConfig struct {
	// Normalize trims the restored body and ends it with a single newline.
	Normalize bool `yaml:"normalize"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after each run when non-empty.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Source returns the path the configuration was loaded from, or "" for defaults.
func (c *Config) Source() string {
	return c.source
}

// Table builds the folder classification table.
func (c *Config) Table() (*category.Table, error) {
	if len(c.Categories) == 0 {
		spacing, entries := category.WithSpacing(c.OrderSpacing)
		return category.NewTable(spacing, entries...)
	}
	entries := make([]category.Descriptor, len(c.Categories))
	for i, e := range c.Categories {
		base := e.BaseOrder
		if base == 0 {
			base = c.OrderSpacing * (i + 1)
		}
		entries[i] = category.Descriptor{Folder: e.Folder, Title: e.Title, Badge: e.Badge, BaseOrder: base}
	}
	return category.NewTable(c.OrderSpacing, entries...)
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Product == "" {
		cfg.Product = DefaultProduct
	}
	if cfg.OrderSpacing == 0 {
		cfg.OrderSpacing = category.DefaultSpacing
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
