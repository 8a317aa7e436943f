package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nivaran/storefront/internal/core/ports"
	infraDB "github.com/nivaran/storefront/internal/infrastructure/db"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// upstreamHealthChecker probes the commerce API endpoint. Any HTTP response
// counts as reachable; only a transport failure is unhealthy.
type upstreamHealthChecker struct {
	endpoint string
	client   *http.Client
}

func (u *upstreamHealthChecker) Name() string { return "commerce_api" }

func (u *upstreamHealthChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build upstream probe: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// NewUpstreamHealthChecker creates a health checker for the commerce API.
func NewUpstreamHealthChecker(endpoint string) ports.HealthChecker {
	return &upstreamHealthChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Second},
	}
}
