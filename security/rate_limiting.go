package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter bounds bursts against the booking endpoint with a Redis
// INCR+EXPIRE window per caller. With no Redis backend (degraded mode) every
// request is allowed; the distributed lock already bounds write throughput.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: time.Minute,
	}
}

// BookingRateLimit is a route middleware for the PocketBase router.
func (r *RateLimiter) BookingRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if r.redis == nil {
			return e.Next()
		}

		if !r.allow(e.Request.Context(), r.identify(e)) {
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
		return e.Next()
	}
}

func (r *RateLimiter) identify(e *core.RequestEvent) string {
	if e.Auth != nil {
		return "user:" + e.Auth.Id
	}
	return "ip:" + e.RealIP()
}

func (r *RateLimiter) allow(ctx context.Context, caller string) bool {
	key := fmt.Sprintf("ratelimit:booking:%s", caller)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: a Redis hiccup must not block bookings.
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	return count <= r.limit
}
