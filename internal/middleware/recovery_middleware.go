package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/metrics"
)

// RecoveryMiddleware converts a handler panic into a 500 with a generic body.
// The panic value and stack go to the log only.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			route := routeOf(c)
			metrics.PanicsRecovered.WithLabelValues(route).Inc()
			logger.Error("Handler panicked",
				zap.Any("panic", rec),
				zap.String("route", route),
				zap.String("method", c.Request.Method),
				zap.String("request_id", RequestIDFrom(c)),
				zap.ByteString("stack", debug.Stack()),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		}()
		c.Next()
	}
}
