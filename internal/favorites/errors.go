package favorites

import "errors"

var (
	// ErrMalformed indicates stored favorites could not be decoded.
	// Load recovers from it silently.
	ErrMalformed = errors.New("malformed favorites")

	// ErrPersist indicates the favorites could not be written.
	ErrPersist = errors.New("persist favorites")
)
