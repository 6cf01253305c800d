package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobvault/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests. Readiness follows the
// database: a service that cannot persist captures should not take traffic.
func ReadinessHandler(ping func() error) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api":      "ok",
			"database": "ok",
		}
		status := "ready"
		httpStatus := http.StatusOK

		if err := ping(); err != nil {
			checks["database"] = err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}
