// Package storage provides the durable key/value store behind the cache's
// persistent tier and the persisted cart id. The backend may be entirely
// unavailable (no redis in dev, network partition); the facade capability-tests
// it once at construction and falls back to an in-memory store with identical
// semantics, so callers never see a storage error.
package storage

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// NewStore returns a redis-backed store when the client answers a ping within
// the timeout, otherwise an in-memory store. A nil client skips the probe.
func NewStore(client redis.UniversalClient, prefix string, logger *logrus.Logger) ports.KeyValueStore {
	if client == nil {
		if logger != nil {
			logger.Warn("kv: no redis client configured, using in-memory store")
		}
		return NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("kv: redis unreachable, falling back to in-memory store")
		}
		return NewMemoryStore()
	}

	return NewRedisStore(client, prefix, logger)
}
