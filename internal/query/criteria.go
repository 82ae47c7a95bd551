// Package query turns catalog records and user criteria into the display list.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vmunix/libex/internal/catalog"
)

var (
	// ErrUnknownSort indicates a sort mode outside the supported set.
	ErrUnknownSort = errors.New("unknown sort mode")

	// ErrRatingRange indicates a minimum rating outside 0-5.
	ErrRatingRange = errors.New("minimum rating must be between 0 and 5")
)

// SortMode selects the ordering of the display list.
type SortMode string

const (
	SortTitleAZ  SortMode = "titleAZ"
	SortTitleZA  SortMode = "titleZA"
	SortRatingHL SortMode = "ratingHL"
	SortRatingLH SortMode = "ratingLH"
)

var sortModes = []SortMode{SortTitleAZ, SortTitleZA, SortRatingHL, SortRatingLH}

// SortModes returns the supported modes in menu order.
func SortModes() []SortMode {
	return append([]SortMode(nil), sortModes...)
}

// ParseSortMode matches s against the supported modes, ignoring case.
func ParseSortMode(s string) (SortMode, error) {
	for _, m := range sortModes {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// Label is the menu text for the mode.
func (m SortMode) Label() string {
	switch m {
	case SortTitleAZ:
		return "Title (A-Z)"
	case SortTitleZA:
		return "Title (Z-A)"
	case SortRatingHL:
		return "Rating (High to Low)"
	case SortRatingLH:
		return "Rating (Low to High)"
	default:
		return string(m)
	}
}

// Next cycles through the supported modes. Unknown modes restart the cycle.
func (m SortMode) Next() SortMode {
	for i, s := range sortModes {
		if s == m {
			return sortModes[(i+1)%len(sortModes)]
		}
	}
	return sortModes[0]
}

// Criteria is the full set of user-selected filter and sort parameters.
// It is a value: setters return a modified copy.
type Criteria struct {
	Search        string       // case-insensitive substring of title or author
	Tag           *catalog.Tag // nil means no tag filter
	MinRating     int          // 0-5
	FavoritesOnly bool
	Sort          SortMode
}

// Defaults returns the initial criteria: everything shown, sorted by title.
func Defaults() Criteria {
	return Criteria{Sort: SortTitleAZ}
}

// WithTag returns a copy filtered to t.
func (c Criteria) WithTag(t catalog.Tag) Criteria {
	c.Tag = &t
	return c
}

// WithoutTag returns a copy with the tag filter cleared.
func (c Criteria) WithoutTag() Criteria {
	c.Tag = nil
	return c
}

// TagName returns the selected tag, or "" when none is selected.
func (c Criteria) TagName() string {
	if c.Tag == nil {
		return ""
	}
	return string(*c.Tag)
}

// IsDefault reports whether c equals Defaults().
func (c Criteria) IsDefault() bool {
	return c.Search == "" && c.Tag == nil && c.MinRating == 0 && !c.FavoritesOnly && c.Sort == SortTitleAZ
}

// Validate checks user-supplied criteria. Evaluate itself accepts any value.
func (c Criteria) Validate() error {
	if c.MinRating < 0 || c.MinRating > 5 {
		return fmt.Errorf("%w: got %d", ErrRatingRange, c.MinRating)
	}
	if c.Tag != nil && !c.Tag.Valid() {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownTag, *c.Tag)
	}
	if _, err := ParseSortMode(string(c.Sort)); err != nil {
		return err
	}
	return nil
}
