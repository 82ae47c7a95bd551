package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./libex.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "libex", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. LIBEX_CONFIG environment variable
//  2. ./libex.toml (current directory)
//  3. $XDG_CONFIG_HOME/libex/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("LIBEX_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("LIBEX_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./libex.toml",
		DefaultPath(),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
