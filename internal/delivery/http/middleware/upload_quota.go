package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const uploadQuotaWindow = 24 * time.Hour

// Sliding window over a sorted set scored by unix time.
// KEYS[1] = quota key
// ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now, ARGV[4] = member
// Returns {allowed, oldest score in window}
const uploadQuotaLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('EXPIRE', key, window)
return {1, now}
`

// UploadQuota caps presigned uploads per user per day. The quota lives in
// Redis only; without Redis it is not enforced and the global limits still
// apply.
func UploadQuota(perDay int) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := redis.Client()
		caller := Caller(c)
		if client == nil || perDay <= 0 || caller.Anonymous() {
			c.Next()
			return
		}

		key := "quota:upload:" + caller.UserID
		allowed, retryAfter, err := checkUploadQuota(c.Request.Context(), client, key, perDay, time.Now())
		if err != nil {
			logRateLimitError(c, "upload_quota_error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			audit.Record(c.Request.Context(), audit.Event{
				Event:     audit.EventRateLimitTriggered,
				ActorID:   caller.UserID,
				ActorRole: string(caller.Role),
				IP:        c.ClientIP(),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Resource:  c.FullPath(),
				Details:   map[string]interface{}{"quota": "upload_daily", "limit": perDay},
			})
			response.Error(c, http.StatusTooManyRequests, "Daily upload limit reached. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// checkUploadQuota returns whether one more upload fits and, when it does
// not, the seconds until the oldest upload leaves the window.
func checkUploadQuota(ctx context.Context, client *goredis.Client, key string, limit int, now time.Time) (bool, int, error) {
	window := int64(uploadQuotaWindow.Seconds())
	member := strconv.FormatInt(now.UnixNano(), 10)

	result, err := client.Eval(ctx, uploadQuotaLuaScript, []string{key}, limit, window, now.Unix(), member).Result()
	if err != nil {
		return false, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected upload quota result %T", result)
	}
	allowed, _ := values[0].(int64)
	oldest, _ := values[1].(int64)
	if allowed == 1 {
		return true, 0, nil
	}
	retryAfter := int(oldest + window - now.Unix())
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter, nil
}
