package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"edurate/db"
	"edurate/handlers"
	"edurate/middleware"
	"edurate/monitoring"
	"edurate/review"
	"edurate/services"
)

// Deps is everything the router needs. Limiter may be nil.
type Deps struct {
	Store   db.Store
	Lexicon *review.Lexicon
	Limiter middleware.Limiter
	Metrics *monitoring.Metrics
	Log     *logrus.Logger

	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = monitoring.NewMetrics()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.ErrorLogger(d.Log),
		middleware.SecurityHeaders(),
		d.Metrics.Middleware(),
		cors.New(corsConfig(d.CORSOrigins)),
	)

	r.GET("/metrics", d.Metrics.Handler())
	handlers.NewSystemHandler(d.Store).RegisterRoutes(r)

	courses := services.NewCourseService(d.Store, d.Log)
	reviews := services.NewReviewService(d.Store, review.NewValidator(d.Lexicon), d.Metrics, d.Log)

	api := r.Group("/api/courses")
	handlers.NewCourseHandler(courses).RegisterRoutes(api)
	handlers.NewReviewHandler(reviews).RegisterRoutes(api,
		middleware.RateLimit(d.Limiter, d.RateLimitRequests, d.RateLimitWindow, d.Log),
	)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
