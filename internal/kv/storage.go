// Package kv is the string key-value storage boundary the record store
// persists through. Drivers: in-memory, sqlite and redis.
package kv

import "context"

// Storage is a flat string key-value store with the semantics of a browser's
// local storage: whole values are read and overwritten, never patched.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem overwrites the value stored under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys returns every present key in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
