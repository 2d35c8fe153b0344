// README: Structured request logging.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/logger"
)

func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"request_id": GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"ip":         c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("http request", fields)
		case status >= 400:
			log.Warn("http request", fields)
		default:
			log.Info("http request", fields)
		}
	}
}
