package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmunix/libex/internal/kv"
)

// DefaultKey is the storage key holding the serialized set.
const DefaultKey = "libraryFavorites"

// Ledger is the in-memory favorites set backed by a kv.Store.
// Every mutation overwrites the stored value before returning.
type Ledger struct {
	store  kv.Store
	key    string
	logger *slog.Logger

	// writeMu orders Load and Toggle so storage matches memory.
	writeMu sync.Mutex
	mu      sync.RWMutex
	set     Set
	hooks   []func(Set)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(l *Ledger) {
		l.key = key
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// OnChange registers a hook called after every Load and Toggle with the new set.
func OnChange(fn func(Set)) Option {
	return func(l *Ledger) {
		l.hooks = append(l.hooks, fn)
	}
}

// NewLedger creates an empty ledger. Call Load to rehydrate it.
func NewLedger(store kv.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		key:    DefaultKey,
		logger: slog.Default(),
		set:    Set{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory set with the stored one. Absent storage yields
// the empty set, and so does anything unreadable; Load never fails.
func (l *Ledger) Load(ctx context.Context) Set {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	set := l.read(ctx)

	l.mu.Lock()
	l.set = set
	l.mu.Unlock()

	l.notify(set)
	return set.Clone()
}

func (l *Ledger) read(ctx context.Context) Set {
	data, err := l.store.Get(ctx, l.key)
	if errors.Is(err, kv.ErrNotFound) {
		return Set{}
	}
	if err != nil {
		l.logger.Warn("favorites unreadable, starting empty", "key", l.key, "error", err)
		return Set{}
	}

	set, err := Decode(data)
	if err != nil {
		l.logger.Debug("ignoring malformed favorites", "key", l.key, "error", err)
		return Set{}
	}
	return set
}

// Persist overwrites the stored value with s.
func (l *Ledger) Persist(ctx context.Context, s Set) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := l.store.Put(ctx, l.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Toggle flips id and persists the result. The in-memory change stands even
// when the write fails; the error wraps ErrPersist. Concurrent toggles are
// applied and written one at a time.
func (l *Ledger) Toggle(ctx context.Context, id string) (Set, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.mu.Lock()
	next := Toggle(l.set, id)
	l.set = next
	l.mu.Unlock()

	err := l.Persist(ctx, next)
	if err != nil {
		l.logger.Error("favorites not saved", "id", id, "error", err)
	} else {
		l.logger.Debug("favorite toggled", "id", id, "favorite", next.Has(id), "count", next.Len())
	}

	l.notify(next)
	return next.Clone(), err
}

// IsFavorite reports whether id is in the current set.
func (l *Ledger) IsFavorite(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Has(id)
}

// Has is IsFavorite; it lets a Ledger act as a membership predicate.
func (l *Ledger) Has(id string) bool { return l.IsFavorite(id) }

// Snapshot returns a copy of the current set.
func (l *Ledger) Snapshot() Set {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Clone()
}

func (l *Ledger) notify(s Set) {
	for _, fn := range l.hooks {
		fn(s.Clone())
	}
}
