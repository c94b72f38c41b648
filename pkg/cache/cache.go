// Package cache stores computed layouts.
//
// Two tiers are involved. A [Memo] keeps recent layouts in a bounded
// in-memory LRU keyed by graph fingerprint and makes sure only one layout per
// fingerprint is computed at a time. Behind it, an optional persistent
// [Cache] backend survives process restarts:
//
//   - [NullCache] stores nothing (the default)
//   - [FileCache] writes one JSON file per entry, for CLI use
//   - [RedisCache] and [MongoCache] share layouts between processes
//
// Values are opaque bytes; the layout manager stores JSON-encoded geometry
// snapshots. Keys are produced by a [Keyer].
package cache

import (
	"context"
	"time"
)

// Cache is a persistent key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
