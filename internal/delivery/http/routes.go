package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/config"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router.
// limiter guards /api/v1 when non-nil; metricsHandler is mounted at /metrics when non-nil.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *RateLimiter, logger zerolog.Logger, metricsHandler http.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and metrics stay outside the rate limit
	router.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiter))
	{
		v1.GET("/search", handler.Search)
		v1.GET("/suggest", handler.Suggest)

		categories := v1.Group("/categories")
		{
			categories.GET("", handler.Categories)
			categories.GET("/:label/products", handler.CategoryProducts)
		}

		v1.POST("/catalog/reload", handler.ReloadCatalog)
	}

	return router
}
