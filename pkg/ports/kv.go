package ports

import "context"

// KeyValueStore persists small string values on the client side
// (completion record, pseudonymous user identifier).
type KeyValueStore interface {
	// Get returns domain.ErrKeyNotFound when the key has no value.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
