package events

// Event types.
const (
	EventCatalogLoaded   = "catalog.loaded"
	EventCatalogFailed   = "catalog.failed"
	EventFavoriteToggled = "favorite.toggled"
	EventViewUpdated     = "view.updated"
)

// CatalogLoaded is emitted when the catalog fetch succeeds.
type CatalogLoaded struct {
	BaseEvent
	Books int `json:"books"`
}

// CatalogFailed is emitted when the catalog fetch fails.
type CatalogFailed struct {
	BaseEvent
	Message string `json:"message"`
}

// FavoriteToggled is emitted after a favorite is flipped.
type FavoriteToggled struct {
	BaseEvent
	Favorite bool   `json:"favorite"`
	Error    string `json:"error,omitempty"` // set when the change was not persisted
}

// NewCatalogLoaded creates a CatalogLoaded event.
func NewCatalogLoaded(books int) *CatalogLoaded {
	return &CatalogLoaded{BaseEvent: NewBaseEvent(EventCatalogLoaded, ""), Books: books}
}

// NewCatalogFailed creates a CatalogFailed event.
func NewCatalogFailed(message string) *CatalogFailed {
	return &CatalogFailed{BaseEvent: NewBaseEvent(EventCatalogFailed, ""), Message: message}
}

// NewFavoriteToggled creates a FavoriteToggled event.
func NewFavoriteToggled(bookID string, favorite bool, err error) *FavoriteToggled {
	e := &FavoriteToggled{BaseEvent: NewBaseEvent(EventFavoriteToggled, bookID), Favorite: favorite}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
