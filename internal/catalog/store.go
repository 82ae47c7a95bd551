package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Status is the load state of the catalog.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Snapshot is a consistent view of the store.
type Snapshot struct {
	Status Status
	Books  []Book     // nil unless Status is StatusReady
	Err    *LoadError // nil unless Status is StatusFailed
}

// Store holds the catalog fetched from a Source.
// The fetch happens at most once; only Retry after a failure starts another.
type Store struct {
	source Source
	logger *slog.Logger

	mu     sync.RWMutex
	status Status
	books  []Book
	err    *LoadError
	done   chan struct{} // non-nil once a fetch has started
}

// NewStore creates a store in the pending state. Nothing is fetched until
// Load or LoadAsync is called.
func NewStore(source Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		source: source,
		logger: logger,
	}
}

// Load starts the fetch if needed and waits for it to finish.
// Later calls return the same outcome without touching the source.
func (s *Store) Load(ctx context.Context) ([]Book, error) {
	done := s.begin(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	snap := s.Snapshot()
	if snap.Err != nil {
		return nil, snap.Err
	}
	return snap.Books, nil
}

// LoadAsync starts the fetch if needed and returns immediately.
// done, if non-nil, is called from another goroutine once the fetch settles.
func (s *Store) LoadAsync(ctx context.Context, done func(Snapshot)) {
	ch := s.begin(ctx)
	if done == nil {
		return
	}
	go func() {
		<-ch
		done(s.Snapshot())
	}()
}

// Retry moves a failed store back to pending and starts a new fetch.
// It returns ErrNotFailed in any other state.
func (s *Store) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusFailed {
		s.mu.Unlock()
		return ErrNotFailed
	}
	s.status = StatusPending
	s.err = nil
	s.done = nil
	s.mu.Unlock()

	s.logger.Info("retrying catalog load")
	s.begin(ctx)
	return nil
}

// Status returns the current load state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Books returns the loaded records, or nil if the catalog is not ready.
func (s *Store) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books)
}

// Snapshot returns status, records and error together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Status: s.status,
		Books:  slices.Clone(s.books),
		Err:    s.err,
	}
}

func (s *Store) begin(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return s.done
	}
	s.done = make(chan struct{})
	// The fetch is never cancelled once issued.
	go s.fetch(context.WithoutCancel(ctx), s.done)
	return s.done
}

func (s *Store) fetch(ctx context.Context, done chan struct{}) {
	defer close(done)

	start := time.Now()
	books, err := s.read(ctx)

	s.mu.Lock()
	if err != nil {
		s.status = StatusFailed
		s.err = asLoadError(err)
		s.books = nil
	} else {
		s.status = StatusReady
		s.books = books
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("catalog load failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	s.logger.Info("catalog loaded", "books", len(books), "duration_ms", time.Since(start).Milliseconds())
}

func (s *Store) read(ctx context.Context) ([]Book, error) {
	payload, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}
