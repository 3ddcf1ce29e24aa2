// Package config loads missionlog settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fentz26/missionlog/internal/logging"
	"github.com/fentz26/missionlog/internal/query"
)

// Config holds missionlog configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// Listen is the address the HTTP API binds to.
	Listen string `yaml:"listen"`
	// APIAddr, when set, makes CLI commands read results over HTTP instead
	// of opening the database.
	APIAddr string `yaml:"api_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// DefaultSort is the initial sort key: date, points or performance.
	DefaultSort string `yaml:"default_sort"`
	// DefaultOwner scopes history views to one client when no --owner is given.
	DefaultOwner string `yaml:"default_owner"`
}

// Dir returns the missionlog state directory (~/.missionlog).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".missionlog"
	}
	return filepath.Join(home, ".missionlog")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:      filepath.Join(Dir(), "missionlog.db"),
		Listen:      "127.0.0.1:7467",
		LogLevel:    "info",
		DefaultSort: string(query.SortByDate),
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromHome loads configuration from ~/.missionlog/config.yaml.
func LoadConfigFromHome() (*Config, error) {
	return LoadConfig(filepath.Join(Dir(), "config.yaml"))
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DBPath == "" && c.APIAddr == "" {
		return fmt.Errorf("db_path or api_addr is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	// Sort values degrade to date elsewhere, but a typo in a config file
	// is worth reporting.
	if c.DefaultSort != "" && string(query.ParseSortKey(c.DefaultSort)) != c.DefaultSort {
		return fmt.Errorf("unknown default_sort %q", c.DefaultSort)
	}
	return nil
}

// SaveConfig saves configuration to a YAML file, creating parent
// directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
