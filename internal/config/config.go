// Package config handles global worktime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global worktime configuration.
type Config struct {
	// DefaultTimesheet is the name of the default timesheet (from Timesheets map).
	DefaultTimesheet string `toml:"default_timesheet"`

	// StateFile overrides where mutable state (active timesheet) is kept.
	// Relative paths are resolved against the config file directory.
	StateFile string `toml:"state_file"`

	// Timesheets is a map of timesheet names to directories.
	Timesheets map[string]string `toml:"timesheets"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// GetTimesheetPath returns the directory for a named timesheet.
// If name is empty, returns the default timesheet directory.
func (c *Config) GetTimesheetPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultTimesheet
	}

	if c.Timesheets != nil {
		if path, ok := c.Timesheets[name]; ok {
			return path, nil
		}
	}

	if name == "" {
		return "", fmt.Errorf("no default timesheet configured")
	}
	return "", fmt.Errorf("timesheet '%s' not found in config", name)
}

// ListTimesheets returns all configured timesheets with their directories.
func (c *Config) ListTimesheets() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Timesheets {
		result[name] = path
	}
	return result
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/worktime/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	// Prefer XDG-style ~/.config/worktime/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "worktime", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	// Fall back to XDG config dir or OS-specific location
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "worktime", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/worktime/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "worktime", "config.toml"), nil
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# worktime configuration

# Default timesheet name (must exist in [timesheets] below)
# default_timesheet = "personal"

# Named timesheets
# [timesheets]
# personal = "/path/to/timesheets/personal"
# work = "/path/to/timesheets/work"

# Optional UI accent color for project paths and bars in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
