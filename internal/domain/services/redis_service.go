package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"emergency-dispatch-service/internal/infrastructure/config"
)

const (
	responderConfigCacheKey = "responder_config"
	dashboardStatsCacheKey  = "dashboard_stats"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Ping(ctx context.Context) error
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheResponderConfig(cfg *ResponderConfig, expiration time.Duration) error
	GetResponderConfig() (*ResponderConfig, error)
	InvalidateResponderConfig() error
	CacheDashboardStats(stats *DashboardStats, expiration time.Duration) error
	GetDashboardStats() (*DashboardStats, error)
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// 1 Ping checks that the Redis server is reachable
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// 2 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 3 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 4 Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// 5 CacheResponderConfig caches the routing destinations with expiration
func (s *RedisService) CacheResponderConfig(cfg *ResponderConfig, expiration time.Duration) error {
	return s.Set(responderConfigCacheKey, cfg, expiration)
}

// 6 GetResponderConfig gets the routing destinations from cache
func (s *RedisService) GetResponderConfig() (*ResponderConfig, error) {
	var cfg ResponderConfig
	if err := s.Get(responderConfigCacheKey, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// 7 InvalidateResponderConfig drops the cached routing destinations. Called
// after every configuration write so routing never uses stale numbers.
func (s *RedisService) InvalidateResponderConfig() error {
	return s.Delete(responderConfigCacheKey)
}

// 8 CacheDashboardStats caches the dashboard counters with expiration
func (s *RedisService) CacheDashboardStats(stats *DashboardStats, expiration time.Duration) error {
	return s.Set(dashboardStatsCacheKey, stats, expiration)
}

// 9 GetDashboardStats gets the dashboard counters from cache
func (s *RedisService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.Get(dashboardStatsCacheKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
