package kv

import "errors"

var (
	// ErrNotFound indicates the key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrUnknownBackend indicates an unsupported storage backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
