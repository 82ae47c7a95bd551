// Package browser holds the state of one browsing session. It owns the
// filter criteria, drives the catalog store and favorites ledger, and
// publishes a recomputed View on the event bus after every change.
package browser

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/events"
	"github.com/vmunix/libex/internal/favorites"
	"github.com/vmunix/libex/internal/query"
	"golang.org/x/text/language"
)

// Session is the explicit state holder for one browse.
type Session struct {
	store  *catalog.Store
	ledger *favorites.Ledger
	engine *query.Engine
	bus    *events.Bus
	logger *slog.Logger

	mu       sync.Mutex
	criteria query.Criteria
	view     View
	seq      uint64
}

// New creates a session with default criteria. The bus may be nil when
// nobody listens for updates.
func New(store *catalog.Store, ledger *favorites.Ledger, engine *query.Engine, bus *events.Bus, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = query.NewEngine(language.English)
	}
	return &Session{
		store:    store,
		ledger:   ledger,
		engine:   engine,
		bus:      bus,
		logger:   logger.With("component", "browser"),
		criteria: query.Defaults(),
	}
}

// Start issues the catalog fetch and returns the pending view. A
// catalog event and a new view are published when the fetch settles.
func (s *Session) Start(ctx context.Context) View {
	v := s.refresh(ctx)
	s.store.LoadAsync(ctx, s.settled(ctx))
	return v
}

// Retry starts a new fetch after a failed load.
func (s *Session) Retry(ctx context.Context) (View, error) {
	if err := s.store.Retry(ctx); err != nil {
		return s.View(), err
	}
	v := s.refresh(ctx)
	s.store.LoadAsync(ctx, s.settled(ctx))
	return v, nil
}

func (s *Session) settled(ctx context.Context) func(catalog.Snapshot) {
	return func(snap catalog.Snapshot) {
		s.refresh(ctx)
		switch snap.Status {
		case catalog.StatusReady:
			s.publish(ctx, events.NewCatalogLoaded(len(snap.Books)))
		case catalog.StatusFailed:
			s.publish(ctx, events.NewCatalogFailed(snap.Err.Message))
		}
	}
}

// View returns the last computed view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Criteria returns the current criteria.
func (s *Session) Criteria() query.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetCriteria replaces all criteria at once.
func (s *Session) SetCriteria(ctx context.Context, c query.Criteria) (View, error) {
	if err := c.Validate(); err != nil {
		return s.View(), err
	}
	return s.update(ctx, func(cur *query.Criteria) { *cur = c }), nil
}

// SetSearch sets the search text.
func (s *Session) SetSearch(ctx context.Context, text string) View {
	return s.update(ctx, func(c *query.Criteria) { c.Search = text })
}

// SetSort sets the sort mode.
func (s *Session) SetSort(ctx context.Context, mode query.SortMode) View {
	return s.update(ctx, func(c *query.Criteria) { c.Sort = mode })
}

// CycleSort advances to the next sort mode.
func (s *Session) CycleSort(ctx context.Context) View {
	return s.update(ctx, func(c *query.Criteria) { c.Sort = c.Sort.Next() })
}

// SetTag restricts the list to books carrying t.
func (s *Session) SetTag(ctx context.Context, t catalog.Tag) (View, error) {
	if !t.Valid() {
		return s.View(), catalog.ErrUnknownTag
	}
	return s.update(ctx, func(c *query.Criteria) { *c = c.WithTag(t) }), nil
}

// ClearTag removes the tag filter.
func (s *Session) ClearTag(ctx context.Context) View {
	return s.update(ctx, func(c *query.Criteria) { *c = c.WithoutTag() })
}

// CycleTag steps through no tag, then each vocabulary tag in order, then
// back to no tag.
func (s *Session) CycleTag(ctx context.Context) View {
	return s.update(ctx, func(c *query.Criteria) {
		tags := catalog.Tags()
		if c.Tag == nil {
			*c = c.WithTag(tags[0])
			return
		}
		i := slices.Index(tags, *c.Tag)
		if i < 0 || i == len(tags)-1 {
			*c = c.WithoutTag()
			return
		}
		*c = c.WithTag(tags[i+1])
	})
}

// SetMinRating sets the minimum star rating, 0 through 5.
func (s *Session) SetMinRating(ctx context.Context, n int) (View, error) {
	if n < 0 || n > 5 {
		return s.View(), query.ErrRatingRange
	}
	return s.update(ctx, func(c *query.Criteria) { c.MinRating = n }), nil
}

// SetFavoritesOnly limits the list to favorites.
func (s *Session) SetFavoritesOnly(ctx context.Context, on bool) View {
	return s.update(ctx, func(c *query.Criteria) { c.FavoritesOnly = on })
}

// Reset restores default criteria. Favorites are untouched.
func (s *Session) Reset(ctx context.Context) View {
	return s.update(ctx, func(c *query.Criteria) { *c = query.Defaults() })
}

// ToggleFavorite flips id in the ledger and recomputes. The returned view
// reflects the toggle even when persisting failed.
func (s *Session) ToggleFavorite(ctx context.Context, id string) (View, error) {
	set, err := s.ledger.Toggle(ctx, id)
	if err != nil && !errors.Is(err, favorites.ErrPersist) {
		return s.View(), err
	}
	s.publish(ctx, events.NewFavoriteToggled(id, set.Has(id), err))
	return s.refresh(ctx), err
}

func (s *Session) update(ctx context.Context, fn func(*query.Criteria)) View {
	s.mu.Lock()
	fn(&s.criteria)
	s.mu.Unlock()
	return s.refresh(ctx)
}

// refresh recomputes the view from the current store, ledger and criteria
// and publishes it.
func (s *Session) refresh(ctx context.Context) View {
	s.mu.Lock()
	snap := s.store.Snapshot()
	favs := s.ledger.Snapshot()
	s.seq++
	v := View{
		Seq:       s.seq,
		Status:    snap.Status,
		Books:     s.engine.Evaluate(snap.Books, s.criteria, favs),
		Total:     len(snap.Books),
		Criteria:  s.criteria,
		Favorites: favs,
	}
	if snap.Err != nil {
		v.Error = snap.Err.Message
	}
	s.view = v
	s.mu.Unlock()

	s.publish(ctx, newViewUpdated(v))
	return v
}

func (s *Session) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
