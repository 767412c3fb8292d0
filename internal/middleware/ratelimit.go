package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// slidingWindowScript implements a sliding-window counter on a Redis sorted
// set. Executed as a single script so concurrent checks stay atomic.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		local counter = redis.call('INCR', key .. ':seq')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		redis.call('PEXPIRE', key, window_ms)
		redis.call('PEXPIRE', key .. ':seq', window_ms)
		return {1, limit - current - 1}
	end
	return {0, 0}
`)

type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		log:    log,
	}
}

// Limit throttles a route per client IP. A Redis outage fails open:
// credential endpoints staying reachable matters more than the throttle.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		now := time.Now()

		res, err := slidingWindowScript.Run(c.Request.Context(), l.client,
			[]string{key},
			now.UnixMilli(),
			now.Add(-l.window).UnixMilli(),
			l.limit,
			l.window.Milliseconds(),
		).Int64Slice()
		if err != nil {
			l.log.Warn().Err(err).Msg("rate limit check failed")
			c.Next()
			return
		}

		allowed := len(res) == 2 && res[0] == 1
		remaining := int64(0)
		if len(res) == 2 {
			remaining = res[1]
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, slow down"})
			return
		}

		c.Next()
	}
}
