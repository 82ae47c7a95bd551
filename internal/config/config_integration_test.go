package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "libex", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Point the catalog somewhere else through the environment
	t.Setenv("LIBEX_CATALOG", "https://example.com/books.json")
	t.Setenv("XDG_DATA_HOME", tmp)

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.Catalog.Source != "https://example.com/books.json" {
		t.Errorf("expected catalog source substituted, got %q", cfg.Catalog.Source)
	}

	// 5. Verify defaults applied
	if cfg.Storage.Path != filepath.Join(tmp, "libex", "favorites.db") {
		t.Errorf("expected default storage path, got %q", cfg.Storage.Path)
	}
	if cfg.Storage.Key != "libraryFavorites" {
		t.Errorf("expected default key, got %q", cfg.Storage.Key)
	}
}
