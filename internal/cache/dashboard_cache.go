// Package cache keeps computed dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/events"
)

const dashboardSummaryKey = "ticket-insights:dashboard:summary"

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.client.Get(ctx, key).Bytes()
}

func (s redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// DashboardCache is a cache-aside store for the global dashboard. A nil or
// disabled cache misses on every read and ignores writes, and Redis errors
// are logged and treated as misses.
type DashboardCache struct {
	store  kvStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardCache wraps client. A nil client or a non-positive ttl
// disables caching.
func NewDashboardCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DashboardCache {
	if client == nil || ttl <= 0 {
		return &DashboardCache{logger: logger}
	}
	return &DashboardCache{store: redisStore{client: client}, ttl: ttl, logger: logger}
}

// Enabled reports whether reads can hit.
func (c *DashboardCache) Enabled() bool {
	return c != nil && c.store != nil
}

// Get returns the cached summary and whether it was found.
func (c *DashboardCache) Get(ctx context.Context) (*domain.DashboardSummary, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.store.Get(ctx, dashboardSummaryKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var summary domain.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.Warn("dashboard cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// Set stores summary for the configured ttl.
func (c *DashboardCache) Set(ctx context.Context, summary *domain.DashboardSummary) {
	if !c.Enabled() || summary == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("dashboard cache encode failed", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, dashboardSummaryKey, raw, c.ttl); err != nil {
		c.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached summary.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.store.Del(ctx, dashboardSummaryKey)
}

// Register drops the cached summary whenever a new ticket is analysed.
func (c *DashboardCache) Register(dispatcher events.Dispatcher) {
	if !c.Enabled() || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketAnalyzed, func(ctx context.Context, _ events.Event) error {
		return c.Invalidate(ctx)
	})
}
