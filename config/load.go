package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the syntax from the file extension. Anything other
// than .toml is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads configuration from path, or from the first existing file in the
// standard search paths when path is empty:
//  1. $XDG_CONFIG_HOME/cpu-pulse/config.yaml
//  2. $XDG_CONFIG_HOME/cpu-pulse/config.toml
//
// A missing file yields the defaults. Environment overrides are applied and
// the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, p := range configSearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return finish(DefaultConfig())
	}

	f, err := os.Open(expandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return finish(DefaultConfig())
		}
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f, FormatForPath(path))
}

// LoadFromReader decodes configuration in the given format over the defaults,
// applies environment overrides and validates the result.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()

	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	cfg.Log.File = expandHome(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. An empty path means
// ".env" in the working directory. A missing file is not an error; loaded
// reports whether a file was read.
func LoadEnvFile(path string) (loaded bool, err error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("config: load env file %s: %w", path, err)
	}
	return true, nil
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CPU_PULSE_REFRESH_INTERVAL"); v != "" {
		if err := cfg.RefreshInterval.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: CPU_PULSE_REFRESH_INTERVAL: %w", err)
		}
	}
	if v := os.Getenv("CPU_PULSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CPU_PULSE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CPU_PULSE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CPU_PULSE_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.Display.NoColor = true
	}
	return nil
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dir := filepath.Join(xdgConfigHome(home), "cpu-pulse")
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.toml"),
	}
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
