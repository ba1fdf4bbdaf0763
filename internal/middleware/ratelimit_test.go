package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedRouter(t *testing.T, requests int, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limiter := NewRateLimiter(rdb, requests, window, zap.NewNop())

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r, mr
}

func doRequest(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	r, _ := newLimitedRouter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r, _ := newLimitedRouter(t, 2, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1"))
}

func TestRateLimiterIsPerClient(t *testing.T) {
	r, _ := newLimitedRouter(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1"))

	// a different client has its own window
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2"))
}

func TestRateLimiterResetsNextWindow(t *testing.T) {
	r, mr := newLimitedRouter(t, 1, time.Second)

	require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1"))

	// jump past the window boundary; the key also expires in Redis
	mr.FastForward(2 * time.Second)
	time.Sleep(1100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
}

func TestRateLimiterClampsZeroWindow(t *testing.T) {
	r, mr := newLimitedRouter(t, 1, 0)

	// window is clamped to one second instead of panicking on key derivation
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	assert.NotEmpty(t, mr.Keys(), "counter key was written")
}

func TestRateLimiterFailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}) // nothing listening
	limiter := NewRateLimiter(rdb, 1, time.Minute, zap.NewNop())

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	}
}
