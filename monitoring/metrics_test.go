package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddlewareRecordsStatusAsNumber(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/courses/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/courses/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("client_error", "/api/courses/:id")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeConnections))
}

func TestMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestDomainCounters(t *testing.T) {
	m := NewMetrics()
	m.ReviewSubmitted("created")
	m.ReviewSubmitted("created")
	m.ReviewSubmitted("invalid_rating")
	m.VoteCast("up")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reviewsSubmitted.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviewsSubmitted.WithLabelValues("invalid_rating")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviewVotes.WithLabelValues("up")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ReviewSubmitted("created")
		nilMetrics.VoteCast("down")
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.VoteCast("down")

	r := gin.New()
	r.GET("/metrics", m.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `edurate_review_votes_total{direction="down"} 1`))
}
