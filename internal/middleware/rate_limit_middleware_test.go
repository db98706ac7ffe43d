package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

// fakeRateLimitRedis backs the limiter with an in-memory counter. Embedding
// redis.Cmdable satisfies the interface; only the three commands the limiter
// issues are implemented.
type fakeRateLimitRedis struct {
	redis.Cmdable

	mu      sync.Mutex
	counts  map[string]int64
	windows map[string]time.Duration
	failing bool
}

func newFakeRateLimitRedis() *fakeRateLimitRedis {
	return &fakeRateLimitRedis{
		counts:  make(map[string]int64),
		windows: make(map[string]time.Duration),
	}
}

func (f *fakeRateLimitRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeRateLimitRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRateLimitRedis) TTL(ctx context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return redis.NewDurationResult(f.windows[key], nil)
}

func newRateLimitTestRouter(store *fakeRateLimitRedis, cfg RateLimitConfig) (*gin.Engine, *int) {
	handled := 0
	router := gin.New()
	router.POST("/api/auth/guest", NewRateLimiter(store).Limit(cfg), func(c *gin.Context) {
		handled++
		c.Status(http.StatusOK)
	})
	return router, &handled
}

func doLoginRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/auth/guest", nil)
	req.RemoteAddr = ip + ":51000"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	store := newFakeRateLimitRedis()
	router, handled := newRateLimitTestRouter(store, StrictLoginRateLimitConfig())

	for i := 0; i < 5; i++ {
		w := doLoginRequest(router, "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 5, *handled)
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	store := newFakeRateLimitRedis()
	router, handled := newRateLimitTestRouter(store, StrictLoginRateLimitConfig())

	for i := 0; i < 5; i++ {
		doLoginRequest(router, "203.0.113.7")
	}
	w := doLoginRequest(router, "203.0.113.7")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 5, *handled, "Blocked request should not reach the handler")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limited")
}

func TestRateLimiter_CountsClientsSeparately(t *testing.T) {
	store := newFakeRateLimitRedis()
	router, _ := newRateLimitTestRouter(store, StrictLoginRateLimitConfig())

	for i := 0; i < 5; i++ {
		doLoginRequest(router, "203.0.113.7")
	}

	w := doLoginRequest(router, "198.51.100.2")
	assert.Equal(t, http.StatusOK, w.Code, "A different client keeps its own window")
}

func TestRateLimiter_SetsRateLimitHeaders(t *testing.T) {
	store := newFakeRateLimitRedis()
	cfg := StrictLoginRateLimitConfig()
	router, _ := newRateLimitTestRouter(store, cfg)

	w := doLoginRequest(router, "203.0.113.7")

	assert.Equal(t, strconv.Itoa(cfg.MaxRequests), w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, strconv.Itoa(cfg.MaxRequests-1), w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, cfg.Window, store.windows["rl:login:203.0.113.7:/api/auth/guest"],
		"First request should start the window TTL")
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	store := newFakeRateLimitRedis()
	store.failing = true
	router, handled := newRateLimitTestRouter(store, StrictLoginRateLimitConfig())

	w := doLoginRequest(router, "203.0.113.7")

	assert.Equal(t, http.StatusOK, w.Code, "Counter outage must not block logins")
	assert.Equal(t, 1, *handled)
}
