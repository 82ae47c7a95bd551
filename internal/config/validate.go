package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validBackends = map[string]bool{
	"sqlite": true, "badger": true, "memory": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if strings.TrimSpace(c.Catalog.Source) == "" {
		errs = append(errs, "catalog.source: required")
	}

	if !validBackends[c.Storage.Backend] {
		errs = append(errs, fmt.Sprintf("storage.backend: must be one of sqlite, badger, memory; got %q", c.Storage.Backend))
	} else if c.Storage.Backend != "memory" && c.Storage.Path == "" {
		errs = append(errs, fmt.Sprintf("storage.path: required for the %s backend", c.Storage.Backend))
	}
	if c.Storage.Key == "" {
		errs = append(errs, "storage.key: required")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Display.Locale != "" {
		if _, err := language.Parse(c.Display.Locale); err != nil {
			errs = append(errs, fmt.Sprintf("display.locale: %q is not a valid language tag", c.Display.Locale))
		}
	}

	return errs
}

// Language returns the collation language, falling back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
