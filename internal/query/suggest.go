package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/vmunix/libex/internal/catalog"
)

// minSimilarity is the Jaro-Winkler score below which a title is not suggested.
const minSimilarity = 0.70

// Suggest returns up to n titles that resemble search, best first.
// It is meant for "did you mean" hints when a search matches nothing.
func Suggest(records []catalog.Book, search string, n int) []string {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" || n <= 0 {
		return nil
	}

	type scored struct {
		title string
		score float64
	}
	var hits []scored
	seen := make(map[string]bool)
	for _, b := range records {
		if seen[b.Title] {
			continue
		}
		seen[b.Title] = true
		if s := similarity(needle, b.Title); s >= minSimilarity {
			hits = append(hits, scored{title: b.Title, score: s})
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(a.title, b.title)
	})

	out := make([]string, 0, min(n, len(hits)))
	for _, h := range hits[:min(n, len(hits))] {
		out = append(out, h.title)
	}
	return out
}

// similarity scores needle against the whole title and each of its words.
func similarity(needle, title string) float64 {
	lower := strings.ToLower(title)
	best := float64(edlib.JaroWinklerSimilarity(needle, lower))
	for _, word := range strings.Fields(lower) {
		best = max(best, float64(edlib.JaroWinklerSimilarity(needle, word)))
	}
	return best
}
