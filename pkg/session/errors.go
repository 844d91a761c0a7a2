package session

import "errors"

var (
	// ErrKeyNotFound is returned when a session key has no value.
	ErrKeyNotFound = errors.New("session: key not found")

	// ErrEmptyKey is returned when an empty key is used.
	ErrEmptyKey = errors.New("session: empty key")
)
