// ABOUTME: Insight configuration management: subject identity and storage paths.
// ABOUTME: Dependencies are built from config, never from process-wide state.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/insight/internal/storage"
)

// Config stores insight tool configuration.
type Config struct {
	// DataDir is the root directory for data storage: the entry series
	// database and the local memory cache both live here.
	// Supports ~ expansion. Defaults to ~/.local/share/insight.
	DataDir string `json:"data_dir,omitempty"`

	// DisplayName is the subject's display name, used to fill an empty
	// profile field on first analysis.
	DisplayName string `json:"display_name,omitempty"`

	// DataSource names where daily readings come from ("manual",
	// "apple_health", "oura", ...). Defaults to "manual".
	DataSource string `json:"data_source,omitempty"`

	// Language is the preferred language tag for narrative findings.
	// Defaults to "en".
	Language string `json:"language,omitempty"`

	// RemoteSync disables the Charm Cloud memory document when false.
	// Defaults to true; an unlinked account degrades to cache-only anyway.
	RemoteSync *bool `json:"remote_sync,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDataSource returns the configured source, defaulting to "manual".
func (c *Config) GetDataSource() string {
	if c.DataSource == "" {
		return "manual"
	}
	return c.DataSource
}

// GetLanguage returns the preferred language tag, defaulting to "en".
func (c *Config) GetLanguage() string {
	if c.Language == "" {
		return "en"
	}
	return c.Language
}

// RemoteEnabled reports whether the Charm Cloud document store should be
// dialed at all.
func (c *Config) RemoteEnabled() bool {
	return c.RemoteSync == nil || *c.RemoteSync
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

// OpenStorage opens the daily-entry store under the configured data dir.
func (c *Config) OpenStorage() (storage.EntryStore, error) {
	dbPath := filepath.Join(c.GetDataDir(), "insight.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open entry store: %w", err)
	}
	return db, nil
}

// CacheDir returns the local memory cache directory under the
// configured data dir.
func (c *Config) CacheDir() string {
	return filepath.Join(c.GetDataDir(), "cache")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "insight", "config.json")
}

// Load reads config from disk.
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
