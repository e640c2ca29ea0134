// Package cache stores rendered artifacts between runs.
//
// Calculations are cheap; the cache exists for the expensive or shared
// outputs: SVG previews and serialized calculation results served by the
// HTTP API. Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under the XDG cache dir (CLI)
//   - [RedisCache]: shared across server instances
//
// Keys come from a [Keyer], which hashes canonical JSON of the inputs so
// equal inputs always map to the same entry. A [ScopedKeyer] prefixes keys
// to keep namespaces apart.
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact kind.
const (
	TTLCalculation = 7 * 24 * time.Hour
	TTLPreview     = 24 * time.Hour
)

// Cache is the interface for artifact storage backends.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
