package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/query"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5b301"))
	heartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0245e"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7263d")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afd7")).Bold(true)
)

const cardTagLimit = 2

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stars renders the whole-star part of a rating out of five.
func stars(rating float64) string {
	n := int(math.Floor(rating))
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// cover renders a small swatch in the title's cover color.
func cover(title string) string {
	color := catalog.Palette[catalog.CoverColor(title)]
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func heart(favorite bool) string {
	if favorite {
		return heartStyle.Render("♥")
	}
	return dimStyle.Render("♡")
}

// cardTags returns the first tags shown on a card.
func cardTags(tags []catalog.Tag) string {
	shown := tags[:min(len(tags), cardTagLimit)]
	names := make([]string, len(shown))
	for i, t := range shown {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func formatBook(b catalog.Book, favorite bool) string {
	return fmt.Sprintf("%s %s %s %s  %s %s %s  %s",
		cover(b.Title),
		heart(favorite),
		starStyle.Render(stars(b.Rating)),
		dimStyle.Render(fmt.Sprintf("(%.1f)", b.Rating)),
		titleStyle.Render(b.Title),
		dimStyle.Render("by "+b.Author),
		dimStyle.Render(fmt.Sprintf("(%d)", b.Year)),
		tagStyle.Render(cardTags(b.Tags)),
	)
}

func formatCriteria(c query.Criteria) string {
	search := c.Search
	if search == "" {
		search = "-"
	}
	tag := c.TagName()
	if tag == "" {
		tag = "all"
	}
	favs := "off"
	if c.FavoritesOnly {
		favs = "on"
	}
	return fmt.Sprintf("Search: %s | Sort: %s | Tag: %s | Rating: %d+ | Favorites only: %s",
		search, c.Sort.Label(), tag, c.MinRating, favs)
}

func printBooks(w io.Writer, books []catalog.Book, favs query.Membership, total int) {
	fmt.Fprintf(w, "Books (%d of %d):\n\n", len(books), total)
	for _, b := range books {
		fmt.Fprintf(w, "  %s\n", formatBook(b, favs.Has(b.ID)))
	}
}
