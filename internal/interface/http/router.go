package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/planetary-hours/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/planetary-hours", handler.Overview)
		api.GET("/planetary-hours/current", handler.CurrentHour)
		api.GET("/planetary-hours/day", handler.DayInfo)
		api.GET("/planetary-hours/hours", handler.AllHours)

		api.GET("/query-logs", handler.RecentQueries)
		api.POST("/query-logs", handler.RecordQuery)

		api.GET("/locations", handler.ListLocations)
		api.POST("/locations", handler.AddLocation)
		api.GET("/locations/:id", handler.GetLocation)
		api.DELETE("/locations/:id", handler.DeleteLocation)
		api.GET("/locations/:id/planetary-hours", handler.LocationOverview)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
