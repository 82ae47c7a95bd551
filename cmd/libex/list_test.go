package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/query"
)

func decodeList(t *testing.T, out string) listOutput {
	t.Helper()
	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), "output: %s", out)
	return got
}

func listIDs(l listOutput) []string {
	ids := make([]string, 0, len(l.Books))
	for _, b := range l.Books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestList_DefaultsSortByTitle(t *testing.T) {
	dir := isolate(t)
	writeCatalog(t, dir)

	out, err := runCLI(t, "list", "--ephemeral")
	require.NoError(t, err)

	assert.Contains(t, out, "Books (3 of 3)")
	apple := strings.Index(out, "Apple Orchards")
	mountain := strings.Index(out, "Mountain Code")
	zebra := strings.Index(out, "Zebra Tales")
	assert.True(t, apple >= 0 && apple < mountain && mountain < zebra, "unexpected order:\n%s", out)
	assert.Contains(t, out, "★★★★☆")
	assert.Contains(t, out, "fiction, fantasy")
	assert.NotContains(t, out, "history")
}

func TestList_FromHTTP(t *testing.T) {
	isolate(t)
	ms := newMockServer(t).ExpectPath("/books.json").RespondCatalog(catalogJSON)
	srv := ms.Build()

	out, err := runCLI(t, "list", "--ephemeral", "--source", srv.URL+"/books.json", "--sort", "ratingHL", "--json")
	require.NoError(t, err)

	got := decodeList(t, out)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, []string{"b1", "b3", "b2"}, listIDs(got))
	assert.Equal(t, 1, ms.hits)
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"tag", []string{"--tag", "tech"}, []string{"b3"}},
		{"min rating", []string{"--min-rating", "4"}, []string{"b1"}},
		{"search author", []string{"--search", "KIM"}, []string{"b2"}},
		{"search title", []string{"-s", "code"}, []string{"b3"}},
		{"rating ascending", []string{"--sort", "ratingLH"}, []string{"b2", "b3", "b1"}},
		{"title descending", []string{"--sort", "titleZA"}, []string{"b1", "b3", "b2"}},
		{"combined", []string{"--tag", "fiction", "--min-rating", "5"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeCatalog(t, dir)

			args := append([]string{"list", "--ephemeral", "--json"}, tt.args...)
			out, err := runCLI(t, args...)
			require.NoError(t, err)

			got := decodeList(t, out)
			assert.Equal(t, tt.want, listIDs(got))
			assert.Equal(t, 3, got.Total)
		})
	}
}

func TestList_NoMatchSuggests(t *testing.T) {
	dir := isolate(t)
	writeCatalog(t, dir)

	out, err := runCLI(t, "list", "--ephemeral", "--search", "Zebra Tails")
	require.NoError(t, err)

	assert.Contains(t, out, "No books match these filters.")
	assert.Contains(t, out, `Did you mean: "Zebra Tales"`)
}

func TestList_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"sort", []string{"--sort", "newest"}, query.ErrUnknownSort},
		{"tag", []string{"--tag", "poetry"}, catalog.ErrUnknownTag},
		{"rating", []string{"--min-rating", "9"}, query.ErrRatingRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := runCLI(t, append([]string{"list", "--ephemeral"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestList_CatalogFailure(t *testing.T) {
	isolate(t)
	srv := newMockServer(t).RespondStatus(500).Build()

	_, err := runCLI(t, "list", "--ephemeral", "--source", srv.URL)
	require.Error(t, err)

	var loadErr *catalog.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "failed to fetch catalog: 500 Internal Server Error", loadErr.Message)
	assert.ErrorIs(t, err, catalog.ErrStatus)
}

func TestList_MissingFile(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "list", "--ephemeral")
	assert.ErrorIs(t, err, catalog.ErrTransport)
}

func TestList_FavoritesOnly(t *testing.T) {
	dir := isolate(t)
	writeCatalog(t, dir)

	_, err := runCLI(t, "fav", "toggle", "b2")
	require.NoError(t, err)

	out, err := runCLI(t, "list", "--favorites", "--json")
	require.NoError(t, err)

	got := decodeList(t, out)
	require.Equal(t, []string{"b2"}, listIDs(got))
	assert.True(t, got.Books[0].Favorite)
}
