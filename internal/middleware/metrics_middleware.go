package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"renovo-backend-go/internal/metrics"
)

// Metrics records request count and latency labelled by the matched route
// template, so path parameters do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.RecordHTTPRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}
