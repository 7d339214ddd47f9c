// Package config handles global pfm configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global pfm configuration. Command-line flags
// override anything set here.
type Config struct {
	// Rules is the path to the YAML rule tables.
	Rules string `toml:"rules"`

	// SourceAssets and TargetAssets point at the identifier-to-path tables
	// the substitution list is derived from.
	SourceAssets string `toml:"source_assets"`
	TargetAssets string `toml:"target_assets"`

	// Extension is the prefab file extension ('.prefab' when unset).
	Extension string `toml:"extension"`

	// BackupSuffix is appended to a target file's name when writing a
	// pre-migration copy ('.orig' when unset).
	BackupSuffix string `toml:"backup_suffix"`

	// Audit enables the append-only migration log under the target root.
	Audit bool `toml:"audit"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output, either an ANSI
	// code ("0" to "255") or a hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from the default location. A missing file
// yields a default config, not an error.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path, preferring the
// XDG-style ~/.config/prefabmig/config.toml.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "prefabmig", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "prefabmig", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// GetExtension returns the configured prefab extension or the default.
func (c *Config) GetExtension() string {
	if c.Extension == "" {
		return ".prefab"
	}
	return c.Extension
}

// GetBackupSuffix returns the configured backup suffix or the default.
func (c *Config) GetBackupSuffix() string {
	if c.BackupSuffix == "" {
		return ".orig"
	}
	return c.BackupSuffix
}
