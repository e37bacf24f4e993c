package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// TokenBucket is a simple token bucket limiter
type TokenBucket struct {
	rate       float64 // tokens refilled per second
	capacity   int
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a token bucket limiter
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow tries to take one token
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

var (
	keyLimiters   = make(map[string]*TokenBucket)
	keyLimitersMu sync.RWMutex
)

// RateLimiterConfig configures one rate limiting middleware
type RateLimiterConfig struct {
	Rate      float64 // requests per second
	Burst     int
	LimitType string // "ip", "path", "combined"
}

// DefaultRateLimiterConfig allows one request per second with small bursts
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:      1,
	Burst:     5,
	LimitType: "ip",
}

func getLimiter(key string, cfg RateLimiterConfig) *TokenBucket {
	keyLimitersMu.RLock()
	limiter, exists := keyLimiters[key]
	keyLimitersMu.RUnlock()
	if exists {
		return limiter
	}

	keyLimitersMu.Lock()
	defer keyLimitersMu.Unlock()
	if limiter, exists = keyLimiters[key]; exists {
		return limiter
	}
	limiter = NewTokenBucket(cfg.Rate, cfg.Burst)
	keyLimiters[key] = limiter
	return limiter
}

// RateLimiter creates the rate limiting middleware
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}

	return func(c *gin.Context) {
		var key string
		switch cfg.LimitType {
		case "path":
			key = c.Request.URL.Path
		case "combined":
			key = c.ClientIP() + ":" + c.Request.URL.Path
		default:
			key = c.ClientIP()
		}

		if !getLimiter(key, cfg).Allow() {
			response.FailWithMessage(c, code.ErrTooManyRequests, "too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IPRateLimiter limits by client IP
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "ip"})
}

// PathRateLimiter limits by request path
func PathRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "path"})
}

// CombinedRateLimiter limits by IP and path together
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "combined"})
}
