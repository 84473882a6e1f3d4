package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/pkg/logger"
	"github.com/zenmart/auth-service/pkg/redis"
	"go.uber.org/zap"
)

// memoryLimiter is the fallback when Redis is disabled. Sliding window over
// per-IP timestamps, single process only.
type memoryLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func newMemoryLimiter(maxRequest int, duration time.Duration) *memoryLimiter {
	return &memoryLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *memoryLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// allow reports whether the request fits in the window and how many requests
// the window currently holds after admitting it.
func (rl *memoryLimiter) allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, len(tokens)
	}

	rl.tokens[ip] = append(tokens, now)
	return true, len(tokens) + 1
}

// RateLimit limits requests per client IP. With Redis enabled the counter is
// a fixed window shared across instances; otherwise it degrades to the
// in-process sliding window.
func RateLimit(rdb *redis.Client, maxRequest int, duration time.Duration) gin.HandlerFunc {
	fallback := newMemoryLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		var allowed bool
		var current int

		if rdb.IsEnabled() {
			key := constants.RateLimitKeyPrefix + ip
			count, err := rdb.IncrWithExpiry(c.Request.Context(), key, duration)
			if err != nil {
				logger.GetLogger().Warn("Rate limit counter unavailable, admitting request",
					zap.String("client_ip", ip),
					zap.Error(err),
				)
				c.Next()
				return
			}
			allowed = count <= int64(maxRequest)
			current = int(count)
		} else {
			allowed, current = fallback.allow(ip, now)
		}

		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("current_requests", current),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(duration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse("Too many requests, please try again later"))
			return
		}

		remaining := maxRequest - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(duration).Unix()))

		c.Next()
	}
}
