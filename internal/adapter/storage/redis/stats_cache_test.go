package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatsCache(client)
	ctx := context.Background()

	wallet := "0xAbC123"
	stats := &domain.AttendanceStats{TotalMeals: 42, ThisWeek: 5, CurrentStreak: 3}

	// Get before set => nil
	result, err := cache.Get(ctx, wallet)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, wallet, stats, 30*time.Second)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, wallet)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, stats, result)
}

func TestStatsCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatsCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "0xAbC123", &domain.AttendanceStats{TotalMeals: 1}, 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, "0xAbC123")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired snapshot should return nil")
}

func TestStatsCache_Invalidate(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatsCache(client)
	ctx := context.Background()

	wallet := "0xAbC123"
	err := cache.Set(ctx, wallet, &domain.AttendanceStats{TotalMeals: 42}, 1*time.Hour)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, wallet))

	result, err := cache.Get(ctx, wallet)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Invalidating an absent key is not an error.
	assert.NoError(t, cache.Invalidate(ctx, "0xUnknown"))
}

func TestStatsCache_KeysAreIsolatedPerWallet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatsCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "0xAAA", &domain.AttendanceStats{TotalMeals: 1}, time.Hour))
	require.NoError(t, cache.Set(ctx, "0xBBB", &domain.AttendanceStats{TotalMeals: 2}, time.Hour))

	a, err := cache.Get(ctx, "0xAAA")
	require.NoError(t, err)
	b, err := cache.Get(ctx, "0xBBB")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.TotalMeals)
	assert.Equal(t, int64(2), b.TotalMeals)
}
