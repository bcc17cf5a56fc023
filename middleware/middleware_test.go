package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edurate/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDAssignedAndLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/ping", nil)
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, id, entry.Data[RequestIDKey])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRequestIDPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/ping", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLoggerLevelByStatus(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, http.MethodGet, "/bad", nil)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestErrorLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(ErrorLogger(log))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})

	serve(r, http.MethodGet, "/fail", nil)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "db down", hook.LastEntry().Data["error"])
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	log, _ := test.NewNullLogger()

	r := gin.New()
	r.POST("/reviews", RateLimit(limiter, 2, time.Minute, log), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/reviews", nil).Code)
	w := serve(r, http.MethodPost, "/reviews", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, http.MethodPost, "/reviews", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"error":"Too many requests, please try again later"}`, w.Body.String())
}

type failingLimiter struct{}

func (failingLimiter) CheckRateLimit(context.Context, string, int, time.Duration) (cache.RateLimit, error) {
	return cache.RateLimit{}, errors.New("connection refused")
}

func TestRateLimitFailsOpen(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.POST("/reviews", RateLimit(failingLimiter{}, 1, time.Minute, log), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/reviews", nil).Code)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRateLimitDisabled(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.POST("/reviews", RateLimit(nil, 1, time.Minute, log), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/reviews", nil).Code)
	}
}
