// Package cache stores settled layouts and exported artifacts so repeated
// runs over the same feed skip the simulation.
//
// Five backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [MemoryCache]: process memory, the server default
//   - [NullCache]: stores nothing, for --no-cache
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes everything that affects a
// layout, so a change to the feed or to any force parameter is a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
