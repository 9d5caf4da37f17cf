package imagecache

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	// ErrStoreClosed is returned when an operation is attempted on a closed store.
	ErrStoreClosed = errors.New("store closed")
)

// Store is the persistent key-value collaborator behind the image cache.
// Keys are arbitrary string locators (remote image URLs); values are
// binary-safe image payloads. Entries survive across sessions.
//
// Writes are idempotent overwrites and reads never mutate, so no locking is
// required between consumers sharing one store. Entries are never evicted:
// URLs are treated as immutable content references, and unbounded growth is
// an accepted tradeoff.
type Store interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value, overwriting any previous entry for key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
