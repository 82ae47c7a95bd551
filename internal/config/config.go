// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `toml:"catalog" json:"catalog"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Log     LogConfig     `toml:"log" json:"log"`
	Display DisplayConfig `toml:"display" json:"display"`
}

type CatalogConfig struct {
	// Source is an http(s) URL or a local file path.
	Source string `toml:"source" json:"source"`
}

type StorageConfig struct {
	Backend string `toml:"backend" json:"backend"` // sqlite, badger or memory
	Path    string `toml:"path" json:"path"`       // database file (sqlite) or directory (badger)
	Key     string `toml:"key" json:"key"`
}

type LogConfig struct {
	Level string `toml:"level" json:"level"`
}

type DisplayConfig struct {
	Locale string `toml:"locale" json:"locale"` // BCP 47 tag used for title collation
}

// Defaults.
const (
	DefaultSource  = "./books.json"
	DefaultBackend = "sqlite"
	DefaultKey     = "libraryFavorites"
	DefaultLevel   = "warn"
	DefaultLocale  = "en"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// environment substitution and defaults but skipping Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.Source == "" {
		c.Catalog.Source = DefaultSource
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath(c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultKey
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLevel
	}
	if c.Display.Locale == "" {
		c.Display.Locale = DefaultLocale
	}
}

// DefaultStoragePath returns where a backend keeps favorites when no path
// is configured.
func DefaultStoragePath(backend string) string {
	switch backend {
	case "badger":
		return filepath.Join(DataDir(), "favorites")
	case "memory":
		return ""
	default:
		return filepath.Join(DataDir(), "favorites.db")
	}
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "libex")
}
