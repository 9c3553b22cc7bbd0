package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ignite/listkeeper/internal/pkg/httputil"
	"github.com/ignite/listkeeper/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles signup attempts per client IP using an atomic
// Redis Lua script. A plain GET → check → INCR sequence would race under
// concurrent requests; the script checks and increments in one step.
type RateLimiter struct {
	redis     *redis.Client
	script    *redis.Script
	perMinute int
}

// Lua script for atomic check-and-increment of a per-minute counter.
const signupLimitLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")

if current + 1 > limit then
    return {0, current}  -- denied
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}  -- allowed
`

// NewRateLimiter connects to Redis and prepares the limiter script.
func NewRateLimiter(redisURL string, perMinute int) (*RateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("signup rate limiter connected to redis", "per_minute", perMinute)

	return NewRateLimiterWithClient(client, perMinute), nil
}

// NewRateLimiterWithClient wraps an existing Redis client. Used by tests.
func NewRateLimiterWithClient(client *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{
		redis:     client,
		script:    redis.NewScript(signupLimitLuaScript),
		perMinute: perMinute,
	}
}

// Allow atomically checks whether the given IP may attempt a signup in the
// current minute bucket. On a Redis error the request is allowed and the
// error logged: a limiter outage must not take the signup flow down.
func (rl *RateLimiter) Allow(ctx context.Context, ip string) bool {
	now := time.Now()
	key := fmt.Sprintf("ratelimit:subscribe:%s:%d", ip, now.Unix()/60)

	result, err := rl.script.Run(ctx, rl.redis,
		[]string{key},
		rl.perMinute,
		120, // 2 minute TTL, outlives the bucket
	).Slice()
	if err != nil {
		logger.Warn("rate limit check failed, allowing request", "error", err)
		return true
	}

	allowed, _ := result[0].(int64)
	return allowed == 1
}

// Middleware enforces the limit on the wrapped endpoint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(r.Context(), ip) {
			logger.Warn("signup rate limit exceeded", "ip", ip)
			httputil.TooManyRequests(w, "too many signup attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close closes the Redis connection.
func (rl *RateLimiter) Close() error {
	return rl.redis.Close()
}

// clientIP strips the port from RemoteAddr. The RealIP middleware has
// already rewritten RemoteAddr from proxy headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
