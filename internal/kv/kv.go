// Package kv provides the durable local key-value storage used for
// application state such as favorites.
package kv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate mockgen -source=kv.go -destination=mocks/store.go -package=mocks

// Store is a flat key-value store. Put replaces any previous value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBadger Backend = "badger"
	BackendMemory Backend = "memory"
)

// ParseBackend matches s against the known backends, ignoring case.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendSQLite, BackendBadger, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Open creates the store for backend at path. The memory backend ignores path.
func Open(backend Backend, path string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendSQLite:
		s, err = OpenSQLite(path)
	case BackendBadger:
		s, err = OpenBadger(path)
	case BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("storage opened", "backend", backend, "path", path)
	return s, nil
}
