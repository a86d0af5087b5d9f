// Package cache stores computed layouts between runs.
//
// Laying out a large graph is the slow part of rendering, and the result only
// depends on the layout request. Engines wrapped with a cache (see
// layout.Cached) look up responses by a hash of the request and skip the
// engine entirely on a hit.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared entries for several CLI processes or workers
//
// Keys are produced by a [Keyer] so a deployment can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the data for key and whether it was found.
	// A missing or expired entry is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL is how long layouts stay cached unless configured otherwise.
const DefaultTTL = 7 * 24 * time.Hour
