package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vmunix/libex/internal/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Membership reports whether a record id is a favorite.
type Membership interface {
	Has(id string) bool
}

// MembershipFunc adapts a function to Membership.
type MembershipFunc func(id string) bool

// Has calls f(id).
func (f MembershipFunc) Has(id string) bool { return f(id) }

// NoFavorites is the empty favorites set.
var NoFavorites Membership = MembershipFunc(func(string) bool { return false })

// Engine evaluates criteria against records. It keeps no state besides the
// collation locale and is safe for concurrent use.
type Engine struct {
	lang language.Tag
}

// NewEngine creates an engine that orders titles by the rules of lang.
func NewEngine(lang language.Tag) *Engine {
	return &Engine{lang: lang}
}

var defaultEngine = NewEngine(language.English)

// Evaluate filters and sorts records with the English collation.
func Evaluate(records []catalog.Book, c Criteria, favs Membership) []catalog.Book {
	return defaultEngine.Evaluate(records, c, favs)
}

// Evaluate returns the records matching every criterion, in the requested
// order. Ties keep their catalog order. The input is never modified.
func (e *Engine) Evaluate(records []catalog.Book, c Criteria, favs Membership) []catalog.Book {
	if favs == nil {
		favs = NoFavorites
	}

	m := newMatcher(c, favs)
	out := make([]catalog.Book, 0, len(records))
	for _, b := range records {
		if m.match(b) {
			out = append(out, b)
		}
	}

	if order := e.comparator(c.Sort); order != nil {
		slices.SortStableFunc(out, order)
	}
	return out
}

// Matches reports whether a single record passes the filters of c.
func Matches(b catalog.Book, c Criteria, favs Membership) bool {
	if favs == nil {
		favs = NoFavorites
	}
	return newMatcher(c, favs).match(b)
}

// comparator returns nil for unrecognized modes, which leaves order unchanged.
func (e *Engine) comparator(mode SortMode) func(a, b catalog.Book) int {
	switch mode {
	case SortTitleAZ:
		// Collators carry buffers and are not shared between calls.
		col := collate.New(e.lang)
		return func(a, b catalog.Book) int { return col.CompareString(a.Title, b.Title) }
	case SortTitleZA:
		col := collate.New(e.lang)
		return func(a, b catalog.Book) int { return col.CompareString(b.Title, a.Title) }
	case SortRatingHL:
		return func(a, b catalog.Book) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortRatingLH:
		return func(a, b catalog.Book) int { return cmp.Compare(a.Rating, b.Rating) }
	default:
		return nil
	}
}

type matcher struct {
	c      Criteria
	favs   Membership
	fold   cases.Caser
	needle string
}

func newMatcher(c Criteria, favs Membership) *matcher {
	fold := cases.Fold()
	return &matcher{
		c:      c,
		favs:   favs,
		fold:   fold,
		needle: fold.String(c.Search),
	}
}

func (m *matcher) match(b catalog.Book) bool {
	if m.needle != "" &&
		!strings.Contains(m.fold.String(b.Title), m.needle) &&
		!strings.Contains(m.fold.String(b.Author), m.needle) {
		return false
	}
	if m.c.Tag != nil && !b.HasTag(*m.c.Tag) {
		return false
	}
	if b.Rating < float64(m.c.MinRating) {
		return false
	}
	if m.c.FavoritesOnly && !m.favs.Has(b.ID) {
		return false
	}
	return true
}
