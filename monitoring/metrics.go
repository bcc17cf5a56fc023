package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers in one
// process don't collide.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec
	activeConnections   prometheus.Gauge
	errorsTotal         *prometheus.CounterVec

	reviewsSubmitted *prometheus.CounterVec
	reviewVotes      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),
		httpResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_connections",
				Help: "Number of requests currently being served",
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "endpoint"},
		),

		reviewsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edurate_reviews_submitted_total",
				Help: "Review submissions by outcome",
			},
			[]string{"outcome"},
		),
		reviewVotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edurate_review_votes_total",
				Help: "Review votes accepted by direction",
			},
			[]string{"direction"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestSize,
		m.httpResponseSize,
		m.activeConnections,
		m.errorsTotal,
		m.reviewsSubmitted,
		m.reviewVotes,
	)
	return m
}

// ReviewSubmitted counts a submission; outcome is "created" or the error kind.
func (m *Metrics) ReviewSubmitted(outcome string) {
	if m == nil {
		return
	}
	m.reviewsSubmitted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) VoteCast(direction string) {
	if m == nil {
		return
	}
	m.reviewVotes.WithLabelValues(direction).Inc()
}

// Middleware collects metrics for each request
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.activeConnections.Inc()
		defer m.activeConnections.Dec()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		if c.Request.ContentLength > 0 {
			m.httpRequestSize.WithLabelValues(c.Request.Method, endpoint).
				Observe(float64(c.Request.ContentLength))
		}

		c.Next()

		status := c.Writer.Status()
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(c.Request.Method, endpoint).Observe(float64(c.Writer.Size()))

		if status >= 500 {
			m.errorsTotal.WithLabelValues("server_error", endpoint).Inc()
		} else if status >= 400 {
			m.errorsTotal.WithLabelValues("client_error", endpoint).Inc()
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
