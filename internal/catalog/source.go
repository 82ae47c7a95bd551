package catalog

import (
	"context"
	"mime"
	"path"
	"strings"
)

// Format is the serialization of a catalog payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Payload is the raw body read from a Source.
type Payload struct {
	Data   []byte
	Format Format
}

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

// Source performs the single read of the catalog resource.
type Source interface {
	Fetch(ctx context.Context) (Payload, error)
}

// formatFor picks a payload format from a Content-Type header, falling back to
// the resource's extension. JSON is the default.
func formatFor(contentType, resource string) Format {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch {
			case strings.HasSuffix(mt, "yaml"):
				return FormatYAML
			case strings.HasSuffix(mt, "json"):
				return FormatJSON
			}
		}
	}
	switch strings.ToLower(path.Ext(resource)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
