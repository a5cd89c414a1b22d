package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns defaults sized for a clinic front desk:
// bursts of form submissions are fine, sustained scraping is not.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// bucket is a token bucket refilled lazily on each take.
type bucket struct {
	mu     sync.Mutex
	level  float64
	cap    float64
	rate   float64
	filled time.Time
}

// take refills based on elapsed time, then spends one token if available.
func (b *bucket) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.level = math.Min(b.cap, b.level+now.Sub(b.filled).Seconds()*b.rate)
	b.filled = now

	if b.level < 1 {
		return false
	}
	b.level--
	return true
}

// retryAfter reports whole seconds until one token is available.
func (b *bucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	return int(math.Ceil((1 - b.level) / b.rate))
}

// RateLimit limits requests per client IP using lazily created token buckets.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	lookup := func(ip string) *bucket {
		mu.Lock()
		defer mu.Unlock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{
				level:  float64(cfg.BurstSize),
				cap:    float64(cfg.BurstSize),
				rate:   cfg.RequestsPerSecond,
				filled: time.Now(),
			}
			buckets[ip] = b
		}
		return b
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)

			b := lookup(c.RealIP())
			if !b.take(time.Now()) {
				h.Set("Retry-After", strconv.Itoa(b.retryAfter()))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
