package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"edurate/cache"
)

const MsgTooManyRequests = "Too many requests, please try again later"

// Limiter is satisfied by *cache.Client.
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string, maxRequests int, window time.Duration) (cache.RateLimit, error)
}

// RateLimit throttles requests per client IP. A nil limiter disables it, and
// a failing limiter lets requests through.
func RateLimit(limiter Limiter, maxRequests int, window time.Duration, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		res, err := limiter.CheckRateLimit(c.Request.Context(), c.ClientIP(), maxRequests, window)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   MsgTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
