package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samdevvv/telofundi/internal/metrics"
)

// Metrics records request duration by route template and in-flight count.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsInFlight.Inc()
		start := time.Now()

		c.Next()

		metrics.RequestsInFlight.Dec()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
