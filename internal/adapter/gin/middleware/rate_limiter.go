package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-signup-service/internal/adapter/gin/handler"
	"user-signup-service/pkg/logger"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// tokenBucket refills a per-client bucket and takes one token from it.
// State is {last_refill, tokens}; returns 1 when the request is allowed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ARGV[4])
return allowed
`)

// RateLimiter limits requests per client IP and route with a Redis token bucket.
type RateLimiter struct {
	client  *redis.Client
	config  RateLimiterConfig
	denied  prometheus.Counter
	log     *zap.Logger
	now     func() time.Time
	ttlSecs int
}

// NewRateLimiter creates a new rate limiter. denied may be nil.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, denied prometheus.Counter, log *zap.Logger) *RateLimiter {
	ttl := 1
	if config.RequestsPerSecond > 0 {
		// Long enough for an empty bucket to refill completely.
		ttl = int(math.Ceil(float64(config.BurstCapacity)/config.RequestsPerSecond)) + 1
	}
	return &RateLimiter{
		client:  client,
		config:  config,
		denied:  denied,
		log:     log,
		now:     time.Now,
		ttlSecs: ttl,
	}
}

// Handler returns the Gin middleware. Redis failures let the request through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		clientIP := c.ClientIP()
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, route, clientIP)
		now := float64(rl.now().UnixMicro()) / 1e6

		allowed, err := tokenBucket.Run(c.Request.Context(), rl.client, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			now,
			rl.ttlSecs,
		).Int64()
		if err != nil {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Float64("limit", rl.config.RequestsPerSecond),
			)
			if rl.denied != nil {
				rl.denied.Inc()
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/rl.config.RequestsPerSecond))))
			handler.AbortWithError(c, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)",
					rl.config.RequestsPerSecond, rl.config.BurstCapacity))
			return
		}

		c.Next()
	}
}
