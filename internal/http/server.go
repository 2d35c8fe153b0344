// README: API gateway; registers HTTP routes and delegates to the trip planner.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripplanner/internal/http/handlers"
	"tripplanner/internal/http/middleware"
	"tripplanner/internal/logger"
)

const defaultAllowedOrigin = "http://localhost:3000"

type ServerDeps struct {
	Planner       handlers.Planner
	AllowedOrigin string
	Logger        logger.Logger
}

type Server struct {
	planner       handlers.Planner
	allowedOrigin string
	log           logger.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	origin := deps.AllowedOrigin
	if origin == "" {
		origin = defaultAllowedOrigin
	}
	return &Server{
		planner:       deps.Planner,
		allowedOrigin: origin,
		log:           log,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(s.log),
		middleware.Recovery(s.log),
		middleware.Metrics(),
		middleware.CORS(s.allowedOrigin),
	)

	plan := handlers.NewPlanHandler(s.planner)
	api := r.Group("/api")
	api.POST("/travel_options", plan.TravelOptions)
	api.POST("/travel_plans", plan.TravelPlans)
	api.POST("/deliveries", plan.Deliveries)

	// paths used by the existing web client
	r.POST("/travel_options/", plan.TravelOptions)
	r.POST("/travel_plans/", plan.TravelPlans)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
