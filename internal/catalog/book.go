// Package catalog holds the book records and the one-shot load that fetches them.
package catalog

import (
	"fmt"
	"slices"
)

// Tag is a category drawn from a fixed vocabulary.
type Tag string

const (
	TagTech       Tag = "tech"
	TagNonFiction Tag = "non-fiction"
	TagFiction    Tag = "fiction"
	TagFantasy    Tag = "fantasy"
	TagHistory    Tag = "history"
	TagSelfHelp   Tag = "self-help"
	TagScience    Tag = "science"
)

var vocabulary = []Tag{
	TagTech,
	TagNonFiction,
	TagFiction,
	TagFantasy,
	TagHistory,
	TagSelfHelp,
	TagScience,
}

// Tags returns the closed tag vocabulary in display order.
func Tags() []Tag {
	return slices.Clone(vocabulary)
}

// Valid reports whether t belongs to the vocabulary.
func (t Tag) Valid() bool {
	return slices.Contains(vocabulary, t)
}

// ParseTag converts user input into a Tag.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTag, s)
	}
	return t, nil
}

// Book is a single catalog record. Records are never modified after a load.
type Book struct {
	ID     string  `json:"id" yaml:"id" validate:"required"`
	Title  string  `json:"title" yaml:"title" validate:"required"`
	Author string  `json:"author" yaml:"author"`
	Year   int     `json:"year" yaml:"year"`
	Rating float64 `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Tags   []Tag   `json:"tags" yaml:"tags" validate:"dive,booktag"`
}

// HasTag reports whether the book carries t.
func (b Book) HasTag(t Tag) bool {
	return slices.Contains(b.Tags, t)
}
