// Package config provides configuration parsing for cpu-pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRefreshInterval is the cadence of the ingestion loop.
const DefaultRefreshInterval = 100 * time.Millisecond

// Config represents the cpu-pulse configuration.
type Config struct {
	// RefreshInterval is the ingestion/redraw cadence.
	RefreshInterval Duration `yaml:"refresh_interval" toml:"refresh_interval"`

	// Collectors holds producer cadences.
	Collectors CollectorsConfig `yaml:"collectors" toml:"collectors"`

	// Export controls the JSON snapshot written for -status and shell prompts.
	Export ExportConfig `yaml:"export" toml:"export"`

	// Log controls structured logging.
	Log LogConfig `yaml:"log" toml:"log"`

	// Display holds TUI rendering settings.
	Display DisplayConfig `yaml:"display" toml:"display"`
}

// CollectorsConfig holds per-producer settings.
type CollectorsConfig struct {
	CPU       IntervalConfig `yaml:"cpu" toml:"cpu"`
	Processes IntervalConfig `yaml:"processes" toml:"processes"`
	Identity  IdentityConfig `yaml:"identity" toml:"identity"`
}

// IntervalConfig is a periodic producer's cadence.
type IntervalConfig struct {
	Interval Duration `yaml:"interval" toml:"interval"`
}

// IdentityConfig configures the one-shot identity producer.
type IdentityConfig struct {
	// RetryInterval is the delay between attempts until one succeeds.
	RetryInterval Duration `yaml:"retry_interval" toml:"retry_interval"`
}

// ExportConfig controls the snapshot file.
type ExportConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Dir is the directory holding snapshot.json.
	Dir string `yaml:"dir" toml:"dir"`
	// Interval is how often the snapshot is rewritten.
	Interval Duration `yaml:"interval" toml:"interval"`
	// TTL is how old a snapshot may be before -status treats it as stale.
	TTL Duration `yaml:"ttl" toml:"ttl"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// Format is text or json.
	Format string `yaml:"format" toml:"format"`
	// File receives logs while the TUI owns the terminal.
	File string `yaml:"file" toml:"file"`
}

// DisplayConfig holds TUI rendering settings.
type DisplayConfig struct {
	NoColor bool `yaml:"no_color" toml:"no_color"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		RefreshInterval: Duration{DefaultRefreshInterval},
		Collectors: CollectorsConfig{
			CPU:       IntervalConfig{Interval: Duration{500 * time.Millisecond}},
			Processes: IntervalConfig{Interval: Duration{500 * time.Millisecond}},
			Identity:  IdentityConfig{RetryInterval: Duration{5 * time.Second}},
		},
		Export: ExportConfig{
			Enabled:  true,
			Dir:      filepath.Join(xdgCacheHome(home), "cpu-pulse"),
			Interval: Duration{2 * time.Second},
			TTL:      Duration{30 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(xdgStateHome(home), "cpu-pulse", "cpu-pulse.log"),
		},
	}
}

// Validate checks the configuration for logical consistency.
func (c *Config) Validate() error {
	positive := []struct {
		field string
		d     Duration
	}{
		{"refresh_interval", c.RefreshInterval},
		{"collectors.cpu.interval", c.Collectors.CPU.Interval},
		{"collectors.processes.interval", c.Collectors.Processes.Interval},
		{"collectors.identity.retry_interval", c.Collectors.Identity.RetryInterval},
	}
	for _, p := range positive {
		if p.d.Duration <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", p.field, p.d)
		}
	}

	if c.Export.Enabled {
		if c.Export.Dir == "" {
			return fmt.Errorf("config: export.dir is required when export is enabled")
		}
		if c.Export.Interval.Duration <= 0 {
			return fmt.Errorf("config: export.interval must be positive, got %s", c.Export.Interval)
		}
		if c.Export.TTL.Duration < 0 {
			return fmt.Errorf("config: export.ttl must be non-negative, got %s", c.Export.TTL)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
