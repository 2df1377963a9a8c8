package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "minicrm:stats:"

// StatsCache keeps computed dashboard aggregates in Redis for a short
// TTL so repeated dashboard loads do not rescan the lead table.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache constructs a StatsCache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(scope Scope) string {
	if scope.All {
		return statsKeyPrefix + "admin"
	}
	return statsKeyPrefix + "user:" + scope.OwnerID
}

// Get returns the cached stats for a scope, if present.
func (c *StatsCache) Get(ctx context.Context, scope Scope) (*DashboardStats, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, statsKey(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("crm: stats cache get: %w", err)
	}
	var stats DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, nil
	}
	return &stats, nil
}

// Set stores stats for a scope.
func (c *StatsCache) Set(ctx context.Context, scope Scope, stats DashboardStats) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(scope), data, c.ttl).Err()
}

// Invalidate drops the admin entry plus the entries for each owner.
// Called after every customer or lead mutation.
func (c *StatsCache) Invalidate(ctx context.Context, ownerIDs ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := []string{statsKeyPrefix + "admin"}
	for _, id := range ownerIDs {
		if id != "" {
			keys = append(keys, statsKeyPrefix+"user:"+id)
		}
	}
	return c.client.Del(ctx, keys...).Err()
}
