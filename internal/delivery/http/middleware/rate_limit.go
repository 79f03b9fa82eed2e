package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig is a fixed-window limit of Limit requests per Window for
// each key returned by KeyFunc.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// FailClosed rejects requests with 503 when Redis errors instead of
	// counting them in memory.
	FailClosed bool
}

// windowCounter increments key and returns the count in the current window
// and when that window ends.
type windowCounter interface {
	incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// INCR with the TTL set on the first hit; returns {count, ttl}.
const fixedWindowScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	res, err := r.client.Eval(ctx, fixedWindowScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: %w", err)
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: unexpected result %T", res)
	}
	count, _ := vals[0].(int64)
	ttl, _ := vals[1].(int64)
	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// memoryCounter is the per-process fallback. Expired windows are dropped
// lazily once the map grows past sweepAt entries.
type memoryCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	sweepAt int
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{windows: map[string]*memoryWindow{}, sweepAt: 10000}
}

func (m *memoryCounter) incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.windows) >= m.sweepAt {
		for k, w := range m.windows {
			if now.After(w.resetAt) {
				delete(m.windows, k)
			}
		}
	}

	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

var fallbackCounter = newMemoryCounter()

// counterFor picks the Redis counter while a client is connected.
var counterFor = func() windowCounter {
	if client := redis.Client(); client != nil {
		return redisCounter{client: client}
	}
	return fallbackCounter
}

// byCallerOrIP keys authenticated requests by user and the rest by IP.
func byCallerOrIP(c *gin.Context) string {
	if id := c.GetString(string(domain.KeyUserID)); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// GlobalRateLimitConfig applies to every request, keyed by client IP.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:global:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// WriteRateLimitConfig guards apply, save and presign. It must run after
// authentication so the key is the user.
func WriteRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:write:",
		KeyFunc:   byCallerOrIP,
	}
}

// RegistrationRateLimitConfig guards account creation. It rejects requests
// while Redis is failing rather than falling back to a per-instance count.
func RegistrationRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:register:",
		KeyFunc:    func(c *gin.Context) string { return c.ClientIP() },
		FailClosed: true,
	}
}

// RateLimitMiddleware counts in Redis when it is connected and in process
// memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)
		ctx := c.Request.Context()

		count, resetAt, err := counterFor().incr(ctx, key, config.Window)
		if err != nil {
			logRateLimitError(c, "redis_error", err)
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt, _ = fallbackCounter.incr(ctx, key, config.Window)
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c, key)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func logRateLimitTriggered(c *gin.Context, key string) {
	audit.Record(c.Request.Context(), audit.Event{
		Event:     audit.EventRateLimitTriggered,
		ActorID:   c.GetString(string(domain.KeyUserID)),
		IP:        c.ClientIP(),
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Resource:  c.FullPath(),
		Details:   map[string]interface{}{"key": audit.HashValue(key)},
	})
}

func logRateLimitError(c *gin.Context, errorType string, err error) {
	audit.Record(c.Request.Context(), audit.Event{
		Event:     audit.EventRateLimitTriggered,
		IP:        c.ClientIP(),
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Details: map[string]interface{}{
			"error_type": errorType,
			"error":      err.Error(),
		},
	})
}
