package browser_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/libex/internal/browser"
	"github.com/vmunix/libex/internal/catalog"
	catalogmocks "github.com/vmunix/libex/internal/catalog/mocks"
	"github.com/vmunix/libex/internal/events"
	"github.com/vmunix/libex/internal/favorites"
	"github.com/vmunix/libex/internal/kv"
	kvmocks "github.com/vmunix/libex/internal/kv/mocks"
	"github.com/vmunix/libex/internal/query"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

const books = `[
  {"id":"a","title":"Zebra","author":"X","year":2000,"rating":4,"tags":["fiction"]},
  {"id":"b","title":"Apple","author":"Y","year":2001,"rating":2,"tags":["history"]}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// gatedSource blocks Fetch until release is called.
type gatedSource struct {
	gate chan struct{}
	once sync.Once
	data string
}

func newGatedSource(data string) *gatedSource {
	return &gatedSource{gate: make(chan struct{}), data: data}
}

func (g *gatedSource) Fetch(ctx context.Context) (catalog.Payload, error) {
	<-g.gate
	return catalog.Payload{Data: []byte(g.data), Format: catalog.FormatJSON}, nil
}

func (g *gatedSource) release() { g.once.Do(func() { close(g.gate) }) }

type fixture struct {
	session *browser.Session
	bus     *events.Bus
	views   <-chan events.Event
	store   kv.Store
}

func newFixture(t *testing.T, source catalog.Source, store kv.Store) *fixture {
	t.Helper()
	if store == nil {
		store = kv.NewMemoryStore()
	}

	bus := events.NewBus(testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	ledger := favorites.NewLedger(store, favorites.WithLogger(testLogger()))
	s := browser.New(catalog.NewStore(source, testLogger()), ledger, nil, bus, testLogger())

	return &fixture{
		session: s,
		bus:     bus,
		views:   bus.Subscribe(events.EventViewUpdated, 64),
		store:   store,
	}
}

func readyFixture(t *testing.T) *fixture {
	t.Helper()
	src := newGatedSource(books)
	src.release()
	f := newFixture(t, src, nil)
	f.session.Start(context.Background())
	f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusReady })
	return f
}

func (f *fixture) waitFor(t *testing.T, pred func(browser.View) bool) browser.View {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-f.views:
			require.True(t, ok, "bus closed")
			if vu, ok := e.(*browser.ViewUpdated); ok && pred(vu.View) {
				return vu.View
			}
		case <-timeout:
			t.Fatal("timeout waiting for view")
		}
	}
}

func titles(v browser.View) []string {
	out := make([]string, 0, len(v.Books))
	for _, b := range v.Books {
		out = append(out, b.Title)
	}
	return out
}

func TestSession_StartIsPendingUntilFetchSettles(t *testing.T) {
	src := newGatedSource(books)
	t.Cleanup(src.release)
	f := newFixture(t, src, nil)
	loaded := f.bus.Subscribe(events.EventCatalogLoaded, 1)

	v := f.session.Start(context.Background())
	assert.Equal(t, catalog.StatusPending, v.Status)
	assert.Empty(t, v.Books)
	assert.Zero(t, v.Total)
	assert.True(t, v.Criteria.IsDefault())

	src.release()
	v = f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusReady })
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(v))
	assert.Equal(t, 2, v.Total)
	assert.Empty(t, v.Error)

	select {
	case e := <-loaded:
		assert.Equal(t, 2, e.(*events.CatalogLoaded).Books)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for catalog.loaded")
	}
}

func TestSession_FailedLoadStaysInteractive(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := newFixture(t, catalog.NewHTTPSource(srv.URL+"/books.json"), nil)
	failed := f.bus.Subscribe(events.EventCatalogFailed, 1)

	f.session.Start(context.Background())
	v := f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusFailed })
	assert.Equal(t, "failed to fetch catalog: 404 Not Found", v.Error)
	assert.Empty(t, v.Books)

	select {
	case e := <-failed:
		assert.Equal(t, v.Error, e.(*events.CatalogFailed).Message)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for catalog.failed")
	}

	v = f.session.SetSearch(context.Background(), "anything")
	assert.Equal(t, catalog.StatusFailed, v.Status)
	assert.Empty(t, v.Books)
	assert.Equal(t, "anything", v.Criteria.Search)

	v, err := f.session.ToggleFavorite(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, v.IsFavorite("a"))
}

func TestSession_RetryAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := catalogmocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any()).Return(catalog.Payload{}, errors.New("connection refused")),
		src.EXPECT().Fetch(gomock.Any()).Return(catalog.Payload{Data: []byte(books), Format: catalog.FormatJSON}, nil),
	)
	f := newFixture(t, src, nil)
	ctx := context.Background()

	f.session.Start(ctx)
	v := f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusFailed })
	assert.Equal(t, "failed to fetch catalog", v.Error)

	v, err := f.session.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPending, v.Status)
	assert.Empty(t, v.Error)

	v = f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusReady })
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(v))

	_, err = f.session.Retry(ctx)
	assert.ErrorIs(t, err, catalog.ErrNotFailed)
}

func TestSession_CriteriaSetters(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()

	v := f.session.SetSearch(ctx, "zEb")
	assert.Equal(t, []string{"Zebra"}, titles(v))

	f.session.SetSearch(ctx, "")
	v = f.session.SetSort(ctx, query.SortRatingLH)
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(v))

	v = f.session.CycleSort(ctx)
	assert.Equal(t, query.SortTitleAZ, v.Criteria.Sort)

	v, err := f.session.SetTag(ctx, catalog.TagHistory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, titles(v))

	_, err = f.session.SetTag(ctx, catalog.Tag("poetry"))
	assert.ErrorIs(t, err, catalog.ErrUnknownTag)
	assert.Equal(t, "history", f.session.Criteria().TagName())

	v = f.session.ClearTag(ctx)
	assert.Len(t, v.Books, 2)

	v, err = f.session.SetMinRating(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zebra"}, titles(v))

	_, err = f.session.SetMinRating(ctx, 6)
	assert.ErrorIs(t, err, query.ErrRatingRange)
	assert.Equal(t, 3, f.session.Criteria().MinRating)

	v = f.session.Reset(ctx)
	assert.True(t, v.Criteria.IsDefault())
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(v))
}

func TestSession_SetCriteria(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()

	c := query.Defaults()
	c.Sort = query.SortRatingHL
	v, err := f.session.SetCriteria(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zebra", "Apple"}, titles(v))

	c.MinRating = -1
	_, err = f.session.SetCriteria(ctx, c)
	assert.ErrorIs(t, err, query.ErrRatingRange)
	assert.Equal(t, 0, f.session.Criteria().MinRating)
}

func TestSession_CycleTagWrapsToNone(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()

	var seen []string
	for range len(catalog.Tags()) + 1 {
		seen = append(seen, f.session.CycleTag(ctx).Criteria.TagName())
	}

	want := []string{"tech", "non-fiction", "fiction", "fantasy", "history", "self-help", "science", ""}
	assert.Equal(t, want, seen)
}

func TestSession_ToggleFavorite(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()
	toggled := f.bus.Subscribe(events.EventFavoriteToggled, 4)

	v, err := f.session.ToggleFavorite(ctx, "a")
	require.NoError(t, err)
	assert.True(t, v.IsFavorite("a"))

	stored, err := f.store.Get(ctx, favorites.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(stored))

	v = f.session.SetFavoritesOnly(ctx, true)
	assert.Equal(t, []string{"Zebra"}, titles(v))

	v, err = f.session.ToggleFavorite(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, v.Books)
	assert.False(t, v.IsFavorite("a"))

	stored, err = f.store.Get(ctx, favorites.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(stored))

	first := (<-toggled).(*events.FavoriteToggled)
	second := (<-toggled).(*events.FavoriteToggled)
	assert.True(t, first.Favorite)
	assert.False(t, second.Favorite)
	assert.Equal(t, "a", second.EntityID())
}

func TestSession_ToggleFavoritePersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := kvmocks.NewMockStore(ctrl)
	store.EXPECT().Put(gomock.Any(), favorites.DefaultKey, gomock.Any()).Return(errors.New("disk full"))

	src := newGatedSource(books)
	src.release()
	f := newFixture(t, src, store)
	f.session.Start(context.Background())
	f.waitFor(t, func(v browser.View) bool { return v.Status == catalog.StatusReady })

	v, err := f.session.ToggleFavorite(context.Background(), "b")
	require.ErrorIs(t, err, favorites.ErrPersist)
	assert.True(t, v.IsFavorite("b"))
	assert.True(t, f.session.View().IsFavorite("b"))
}

func TestSession_EveryChangePublishesView(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()

	f.session.SetSearch(ctx, "apple")
	v := f.waitFor(t, func(v browser.View) bool { return v.Criteria.Search == "apple" })
	assert.Equal(t, []string{"Apple"}, titles(v))

	f.session.SetFavoritesOnly(ctx, true)
	v = f.waitFor(t, func(v browser.View) bool { return v.Criteria.FavoritesOnly })
	assert.True(t, v.Empty())

	f.session.Reset(ctx)
	v = f.waitFor(t, func(v browser.View) bool { return v.Criteria.IsDefault() })
	assert.Len(t, v.Books, 2)
}

func TestSession_NilBus(t *testing.T) {
	src := newGatedSource(books)
	src.release()
	store := catalog.NewStore(src, testLogger())
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	s := browser.New(store, favorites.NewLedger(kv.NewMemoryStore()), nil, nil, nil)
	v := s.SetSearch(context.Background(), "zebra")
	assert.Equal(t, []string{"Zebra"}, titles(v))
}

func TestSession_ViewSeqIncreases(t *testing.T) {
	f := readyFixture(t)
	ctx := context.Background()

	first := f.session.SetSearch(ctx, "a")
	second := f.session.SetSearch(ctx, "ab")
	assert.Greater(t, second.Seq, first.Seq)
	assert.Equal(t, second.Seq, f.session.View().Seq)
}
