package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window counter in Redis keyed by client IP. A
// shared store keeps the limit correct across service instances and
// restarts, unlike a process-local map.
type RateLimiter struct {
	rdb      *redis.Client
	requests int
	window   time.Duration
	logger   *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, requests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	// The key derivation divides by the window; a zero or negative window
	// from config must not panic every request.
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		rdb:      rdb,
		requests: requests,
		window:   window,
		logger:   logger,
	}
}

// Middleware counts the request against the client's current window and
// rejects with 429 once the limit is hit. Redis being down fails open:
// availability beats throttling accuracy here.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(l.window.Seconds()))

		count, err := l.rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			l.rdb.Expire(c.Request.Context(), key, l.window)
		}

		if count > int64(l.requests) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
