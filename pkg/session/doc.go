// Package session provides the request-scoped key-value store the tenancy
// layer persists its state into.
//
// The Store interface is deliberately small: per-session scalar values
// addressed by name. The tenancy manager uses a single fixed key to hold
// the active tenant ID across requests; applications are free to reuse the
// store for other session-scoped scalars.
//
// # Implementations
//
// Two implementations ship with the package:
//
//   - MemoryStore: mutex-guarded map, one instance per session. The default
//     for tests and single-process deployments.
//   - RedisStore: go-redis backed, keys namespaced by session ID with an
//     optional activity-refreshed TTL. Use it when sessions must survive
//     process restarts or be shared across instances.
//
// # Usage
//
//	store := session.NewRedisStore(client, sessionID, 24*time.Hour)
//
//	if err := store.Put(ctx, "tenant_id", "42"); err != nil {
//		// handle error
//	}
//
//	value, err := store.Get(ctx, "tenant_id")
//	if errors.Is(err, session.ErrKeyNotFound) {
//		// no value stored
//	}
//
// # Errors
//
// Get returns ErrKeyNotFound for absent keys; every method rejects empty
// keys with ErrEmptyKey. Both are sentinel errors usable with errors.Is.
package session
