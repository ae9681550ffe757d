// Package config handles configuration loading and validation for artstory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	History HistoryConfig `yaml:"history" json:"history"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	DataDir string        `yaml:"-" json:"data_dir"` // set by caller, not from config file
}

// HistoryConfig holds search history limits.
type HistoryConfig struct {
	MaxEntries     int `yaml:"max_entries" json:"max_entries"`
	RecentDays     int `yaml:"recent_days" json:"recent_days"`
	MaxQueryLength int `yaml:"max_query_length" json:"max_query_length"`
}

// StorageConfig selects where the history is persisted.
type StorageConfig struct {
	Backend  string `yaml:"backend" json:"backend"`
	RedisURL string `yaml:"redis_url,omitempty" json:"redis_url,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries:     searchhistory.DefaultMaxEntries,
			RecentDays:     searchhistory.DefaultRecentDays,
			MaxQueryLength: searchhistory.DefaultMaxQueryLength,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.History.RecentDays == 0 {
		c.History.RecentDays = defaults.History.RecentDays
	}
	if c.History.MaxQueryLength == 0 {
		c.History.MaxQueryLength = defaults.History.MaxQueryLength
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
}

// HistoryOptions converts the history section into store options.
func (c *Config) HistoryOptions() searchhistory.Options {
	return searchhistory.Options{
		MaxEntries:     c.History.MaxEntries,
		RecentDays:     c.History.RecentDays,
		MaxQueryLength: c.History.MaxQueryLength,
	}
}

// HistoryFile returns the path of the JSON file used by the file backend.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

// DatabaseFile returns the path of the SQLite database used by the sqlite backend.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "history.db")
}
