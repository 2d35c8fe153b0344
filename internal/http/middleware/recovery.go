// README: Recovery middleware.
package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/logger"
)

// Recovery turns a handler panic into a 500 and logs it with the request id.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", map[string]interface{}{
					"request_id": GetRequestID(c),
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprint(r),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
