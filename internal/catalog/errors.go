package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates the catalog source could not be read.
	ErrTransport = errors.New("catalog source unreachable")

	// ErrStatus indicates the catalog source answered with a non-success status.
	ErrStatus = errors.New("catalog source returned an error status")

	// ErrMalformedPayload indicates the payload is not a list of book records.
	ErrMalformedPayload = errors.New("malformed catalog payload")

	// ErrNotFailed is returned by Retry when the last load did not fail.
	ErrNotFailed = errors.New("catalog load has not failed")

	// ErrUnknownTag indicates a tag outside the vocabulary.
	ErrUnknownTag = errors.New("unknown tag")
)

// LoadError is the single failure a catalog load can surface.
// Kind is one of ErrTransport, ErrStatus or ErrMalformedPayload.
type LoadError struct {
	Kind    error
	Message string // human-readable, safe to show to the user
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportError(err error) *LoadError {
	return &LoadError{Kind: ErrTransport, Message: "failed to fetch catalog", Err: err}
}

func statusError(status string) *LoadError {
	return &LoadError{Kind: ErrStatus, Message: "failed to fetch catalog: " + status}
}

func malformedError(err error) *LoadError {
	return &LoadError{Kind: ErrMalformedPayload, Message: "catalog payload is malformed", Err: err}
}

// asLoadError normalizes any fetch failure into a LoadError.
func asLoadError(err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	switch {
	case errors.Is(err, ErrStatus):
		return &LoadError{Kind: ErrStatus, Message: "failed to fetch catalog", Err: err}
	case errors.Is(err, ErrMalformedPayload):
		return malformedError(err)
	default:
		return transportError(err)
	}
}
