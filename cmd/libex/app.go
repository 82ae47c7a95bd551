package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/config"
	"github.com/vmunix/libex/internal/favorites"
	"github.com/vmunix/libex/internal/kv"
	"github.com/vmunix/libex/internal/query"
	"golang.org/x/sync/errgroup"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	cfgPath string // "" when running on defaults
	logger  *slog.Logger
	kv      kv.Store
	catalog *catalog.Store
	ledger  *favorites.Ledger
	engine  *query.Engine
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig resolves the config file from --config or discovery.
// Without any file the defaults apply.
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newApp opens storage and prepares the catalog store. Logs go to logOut.
func newApp(logOut io.Writer) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if sourceFlag != "" {
		cfg.Catalog.Source = sourceFlag
	}
	if ephemeral {
		cfg.Storage.Backend = string(kv.BackendMemory)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	backend, err := kv.ParseBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(backend, cfg.Storage.Path, logger.With("component", "kv"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &app{
		cfg:     cfg,
		cfgPath: path,
		logger:  logger,
		kv:      store,
		catalog: catalog.NewStore(newSource(cfg.Catalog.Source), logger.With("component", "catalog")),
		ledger: favorites.NewLedger(store,
			favorites.WithKey(cfg.Storage.Key),
			favorites.WithLogger(logger.With("component", "favorites")),
			favorites.OnChange(func(s favorites.Set) {
				logger.Debug("favorites changed", "count", s.Len())
			}),
		),
		engine: query.NewEngine(cfg.Language()),
	}, nil
}

func newSource(s string) catalog.Source {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return catalog.NewHTTPSource(s)
	}
	return catalog.NewFileSource(s)
}

// load fetches the catalog and rehydrates favorites concurrently.
// Favorites are returned even when the catalog fails.
func (a *app) load(ctx context.Context) ([]catalog.Book, favorites.Set, error) {
	var (
		books []catalog.Book
		favs  favorites.Set
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		books, err = a.catalog.Load(ctx)
		return err
	})
	g.Go(func() error {
		favs = a.ledger.Load(ctx)
		return nil
	})
	err := g.Wait()

	return books, favs, err
}

func (a *app) Close() error {
	return a.kv.Close()
}
