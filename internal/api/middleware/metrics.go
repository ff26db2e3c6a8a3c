package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"invest-console.io/console/internal/pkg/metrics"
)

// Metrics records per-request latency labeled by route pattern rather than
// raw path, keeping cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
