// ABOUTME: pahdb configuration management.
// ABOUTME: Handles the database location and log level stored in the XDG config dir.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/kgaertn/PAH-PCA-LDA/internal/db"
)

// Config stores pahdb configuration.
type Config struct {
	// DBPath is the SQLite database file. Supports ~ expansion.
	// Defaults to data/PAH_database.db relative to the working directory.
	DBPath string `json:"db_path,omitempty"`

	// LogLevel is a zerolog level name. Defaults to "info".
	LogLevel string `json:"log_level,omitempty"`
}

// GetDBPath returns the configured database path with ~ expanded.
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return db.DefaultPath
	}
	return ExpandPath(c.DBPath)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "pahdb", "config.json")
}

// Load reads config from disk. A missing file yields an empty config.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
