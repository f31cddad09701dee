package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// StatsCache implements ports.StatsCache using Redis. Snapshots are
// short-lived and dropped eagerly when a new redemption lands, so the
// dashboard never serves stats older than the TTL.
type StatsCache struct {
	client *goredis.Client
	prefix string
}

// NewStatsCache creates a new Redis-backed stats cache.
func NewStatsCache(client *goredis.Client) *StatsCache {
	return &StatsCache{
		client: client,
		prefix: "stats:",
	}
}

// Get retrieves a cached snapshot by wallet address.
// Returns nil, nil if the key does not exist.
func (c *StatsCache) Get(ctx context.Context, walletAddress string) (*domain.AttendanceStats, error) {
	val, err := c.client.Get(ctx, c.prefix+walletAddress).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis stats get: %w", err)
	}

	stats := &domain.AttendanceStats{}
	if err := json.Unmarshal(val, stats); err != nil {
		return nil, fmt.Errorf("unmarshal cached stats: %w", err)
	}
	return stats, nil
}

// Set stores a snapshot with TTL.
func (c *StatsCache) Set(ctx context.Context, walletAddress string, stats *domain.AttendanceStats, ttl time.Duration) error {
	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+walletAddress, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis stats set: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for a wallet address.
func (c *StatsCache) Invalidate(ctx context.Context, walletAddress string) error {
	if err := c.client.Del(ctx, c.prefix+walletAddress).Err(); err != nil {
		return fmt.Errorf("redis stats del: %w", err)
	}
	return nil
}
