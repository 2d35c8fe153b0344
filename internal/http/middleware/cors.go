package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows exactly one origin, with any method and header and without credentials.
// Requests from any other origin get 403.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{allowedOrigin},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"X-Session-ID", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	})
}
