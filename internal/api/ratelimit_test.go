package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, perMinute int) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiterWithClient(client, perMinute)
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow(ctx, "10.0.0.1"), "request over the limit must be denied")
}

func TestRateLimiter_IsolatesClients(t *testing.T) {
	rl := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, rl.Allow(ctx, "10.0.0.1"))
	require.False(t, rl.Allow(ctx, "10.0.0.1"))

	assert.True(t, rl.Allow(ctx, "10.0.0.2"), "a different client must not share the bucket")
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	rl := NewRateLimiterWithClient(client, 1)

	mr.Close()

	assert.True(t, rl.Allow(context.Background(), "10.0.0.1"),
		"limiter outage must not block signups")
}

func TestRateLimiter_Middleware429(t *testing.T) {
	rl := newTestLimiter(t, 1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := rl.Middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
