package browser

import (
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/events"
	"github.com/vmunix/libex/internal/favorites"
	"github.com/vmunix/libex/internal/query"
)

// View is everything a presenter needs to draw one frame.
type View struct {
	Seq       uint64 // increases with every recompute
	Status    catalog.Status
	Error     string         // load failure message, "" unless Status is StatusFailed
	Books     []catalog.Book // filtered and sorted
	Total     int            // size of the loaded catalog
	Criteria  query.Criteria
	Favorites favorites.Set
}

// IsFavorite reports whether id was a favorite when the view was built.
func (v View) IsFavorite(id string) bool {
	return v.Favorites.Has(id)
}

// Empty reports whether the catalog is ready but nothing matches.
func (v View) Empty() bool {
	return v.Status == catalog.StatusReady && len(v.Books) == 0
}

// ViewUpdated is published on the bus after every recompute.
type ViewUpdated struct {
	events.BaseEvent
	View View `json:"-"`
}

func newViewUpdated(v View) *ViewUpdated {
	return &ViewUpdated{BaseEvent: events.NewBaseEvent(events.EventViewUpdated, ""), View: v}
}
