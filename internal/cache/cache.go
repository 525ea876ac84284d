// Package cache provides a small tagged cache: entries carry invalidation
// tags so that everything scoped to one search index can be dropped when the
// index is rebuilt.
package cache

import (
	"context"
	"time"
)

// Cache is the tagged cache contract. Writes are idempotent; recomputing and
// overwriting an entry with an equal value is always safe.
type Cache interface {
	// Get returns the cached value for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key with the given TTL (0 = no expiry) and
	// associates it with the given invalidation tags.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error

	// InvalidateTags drops every entry associated with any of the tags.
	InvalidateTags(ctx context.Context, tags ...string) error
}

// IndexTag builds the invalidation tag scoping entries to a search index.
func IndexTag(indexName string) string {
	return "index:" + indexName
}
