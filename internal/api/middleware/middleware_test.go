package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMemoryLimiter_SlidingWindow(t *testing.T) {
	rl := NewMemoryLimiter(2, time.Minute)
	t.Cleanup(rl.Stop)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	ok, remaining, _, err := rl.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _, _ = rl.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, reset, _ := rl.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), reset)

	ok, _, _, _ = rl.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "other clients have their own window")

	now = now.Add(time.Minute + time.Second)
	ok, _, _, _ = rl.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "window slid past old requests")
}

func TestMemoryLimiter_EvictIdle(t *testing.T) {
	rl := NewMemoryLimiter(5, time.Second)
	t.Cleanup(rl.Stop)

	now := time.Now()
	rl.now = func() time.Time { return now }
	_, _, _, _ = rl.Allow(context.Background(), "idle")

	now = now.Add(3 * time.Second)
	rl.evictIdle()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewMemoryLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)
	handler := RateLimit(rl, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "RATE_LIMITED")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, time.Time, error) {
	return false, 0, time.Time{}, errors.New("connection refused")
}

func (failingLimiter) Limit() int { return 1 }

func TestRateLimit_FailsOpen(t *testing.T) {
	var logs bytes.Buffer
	handler := RateLimit(failingLimiter{}, slog.New(slog.NewTextHandler(&logs, nil)))(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, logs.String(), "rate limiter unavailable")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:1", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.7:4321", "192.0.2.7"},
		{"ipv6 remote addr", nil, "[::1]:4321", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestLogging_IncludesRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := chimw.RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/roles/x", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, logs.String(), `"request_id"`)
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"status":404`)
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
	assert.Contains(t, logs.String(), "boom")
}

// Runs against a real redis when REDIS_ADDR is set.
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	rl := NewRedisLimiter(client, 2, time.Minute)
	rl.prefix = "roster:test:" + time.Now().Format("150405.000000") + ":"

	ok, remaining, _, err := rl.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, _, _, _ = rl.Allow(ctx, "client")
	assert.True(t, ok)

	ok, _, _, err = rl.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, ok)
}
