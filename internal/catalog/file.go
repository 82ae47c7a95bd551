package catalog

import (
	"context"
	"os"
)

// FileSource reads the catalog from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, transportError(err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Payload{}, transportError(err)
	}
	return Payload{Data: data, Format: formatFor("", s.path)}, nil
}

// String identifies the source in logs.
func (s *FileSource) String() string { return s.path }
