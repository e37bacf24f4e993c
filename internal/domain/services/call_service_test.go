package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCacheService keeps cached values in memory so the cache paths run
// without a Redis server.
type fakeCacheService struct {
	responders *ResponderConfig
	stats      *DashboardStats
}

func (f *fakeCacheService) Ping(ctx context.Context) error { return nil }

func (f *fakeCacheService) Set(key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeCacheService) Get(key string, dest interface{}) error {
	return errors.New("cache miss")
}

func (f *fakeCacheService) Delete(key string) error { return nil }

func (f *fakeCacheService) CacheResponderConfig(cfg *ResponderConfig, expiration time.Duration) error {
	f.responders = cfg
	return nil
}

func (f *fakeCacheService) GetResponderConfig() (*ResponderConfig, error) {
	if f.responders == nil {
		return nil, errors.New("cache miss")
	}
	return f.responders, nil
}

func (f *fakeCacheService) InvalidateResponderConfig() error {
	f.responders = nil
	return nil
}

func (f *fakeCacheService) CacheDashboardStats(stats *DashboardStats, expiration time.Duration) error {
	f.stats = stats
	return nil
}

func (f *fakeCacheService) GetDashboardStats() (*DashboardStats, error) {
	if f.stats == nil {
		return nil, errors.New("cache miss")
	}
	return f.stats, nil
}

func TestGetDashboardStatsServedFromCache(t *testing.T) {
	cached := &DashboardStats{
		ActiveCalls: 3,
		TodayCalls:  7,
		TodayRed:    2,
		ClosedToday: 4,
		ByCategory:  map[string]int64{"medica": 5, "bomberos": 2},
	}

	// A nil DB proves the database is never queried on a cache hit.
	svc := &CallService{Cache: &fakeCacheService{stats: cached}}

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, cached, stats)
}

func TestResponderConfigServedFromCache(t *testing.T) {
	cached := &ResponderConfig{Supervisor: "3513334444"}
	svc := &CallService{Cache: &fakeCacheService{responders: cached}}

	assert.Equal(t, cached, svc.responderConfig())
}

func TestResponderConfigCacheMissPopulatesCache(t *testing.T) {
	fromDB := &ResponderConfig{Supervisor: "3513334444", Fire: "3515556666"}
	cache := &fakeCacheService{}
	svc := &CallService{
		Configs: &stubConfigService{responders: fromDB},
		Cache:   cache,
	}

	rc := svc.responderConfig()
	assert.Equal(t, fromDB, rc)
	assert.Equal(t, fromDB, cache.responders, "database result must be written back to the cache")
}

func TestDayStartUsesLocalMidnight(t *testing.T) {
	zone := time.FixedZone("ART", -3*60*60)
	at := time.Date(2025, 3, 15, 1, 30, 0, 0, zone)

	got := dayStart(at)
	assert.True(t, time.Date(2025, 3, 15, 0, 0, 0, 0, zone).Equal(got))
	assert.True(t, got.Before(at))

	// Truncate works on the UTC day and lands on the previous local day here
	assert.False(t, at.Truncate(24*time.Hour).Equal(got))
}
