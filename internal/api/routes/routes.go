package routes

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobvault/internal/api/handlers"
	"jobvault/internal/api/middleware"
	"jobvault/internal/capture"
	"jobvault/internal/config"
	"jobvault/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *capture.Service, store *storage.Store, artifacts *storage.FileStore) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	// Captures run two model passes; the timeout has to cover both.
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 3*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/ready", handlers.ReadinessHandler(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Ping(ctx)
		}))
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("/scrape", handlers.CaptureHandler(svc))
			jobs.GET("", handlers.ListJobsHandler(store))
			jobs.GET("/:id", handlers.JobDetailHandler(store, artifacts))
			jobs.PATCH("/:id/status", handlers.UpdateStatusHandler(store))
		}
	}
}
