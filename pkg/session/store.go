package session

import "context"

// Store is a scalar key-value store scoped to the current request/session.
// Implementations may perform I/O; all methods take a context for that
// reason. Values are plain strings so any backend can hold them.
type Store interface {
	// Has reports whether a value exists for the key.
	Has(ctx context.Context, key string) (bool, error)

	// Get retrieves the value for the key.
	// Returns ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Put stores the value under the key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
