package catalog

import "unicode/utf8"

// Palette holds the cover colors used by the presentation layer.
var Palette = []string{
	"#5e2129",
	"#203b30",
	"#2c3e50",
	"#5d4037",
	"#4a235a",
}

// CoverColor maps a title to an index into Palette.
// The same title always yields the same color.
func CoverColor(title string) int {
	return utf8.RuneCountInString(title) % len(Palette)
}
