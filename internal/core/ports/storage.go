package ports

import "context"

// KeyValueStore is the durable store behind the cache's persistent tier and
// the persisted cart id. The interface deliberately has no error returns: the
// rest of the system assumes storage never throws, so implementations must
// swallow failures internally (logging them) and behave as an empty store
// when the backend is unavailable.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool)
	Set(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
	// Keys lists every key currently held by the store.
	Keys(ctx context.Context) []string
	// Subscribe registers a callback invoked with the key of any Set or
	// Remove, including ones performed by other processes sharing the
	// backend. The returned function unsubscribes.
	Subscribe(fn func(key string)) (unsubscribe func())
}
