// Package session provides per-visitor key-value session state and a
// field accessor supporting one level of nested addressing.
package session

// Store abstracts session CRUD so that session state can be kept
// in-memory (default) or in persistent backing storage.
type Store interface {
	// Get retrieves a value by key. Returns false if the key is absent.
	Get(key string) (any, bool)
	// Set creates or updates the value stored under key.
	Set(key string, value any)
	// Delete removes a key.
	Delete(key string)
	// Exists reports whether the key is present.
	Exists(key string) bool
}
