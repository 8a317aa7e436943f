package ports

import (
	"context"
	"encoding/json"
	"time"
)

// CacheManager is the two-tier TTL cache keyed by GraphQL operation name plus
// canonicalized variables. It never surfaces errors: any internal failure
// degrades to a miss, so callers always fall back to a fresh fetch.
type CacheManager interface {
	// Get returns the cached payload for (operation, variables). ok=false on
	// miss or expiry; expired entries are purged on read.
	Get(ctx context.Context, operation string, variables map[string]any) (json.RawMessage, bool)
	// Set stores the payload in both tiers with the given TTL.
	Set(ctx context.Context, operation string, variables map[string]any, data json.RawMessage, ttl time.Duration)
	// Invalidate removes the entry from both tiers.
	Invalidate(ctx context.Context, operation string, variables map[string]any)
	// Subscribe registers a callback invoked with the cache key whenever an
	// entry changes, including changes made by another process sharing the
	// persistent tier. The returned function unsubscribes.
	Subscribe(fn func(key string)) (unsubscribe func())
}
