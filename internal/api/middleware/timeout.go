package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SelectiveTimeoutConfig applies the default timeout to most endpoints and
// the longer one to capture requests, which sit on fetch plus two LLM
// round trips.
func SelectiveTimeoutConfig(defaultTimeout, captureTimeout time.Duration) echo.MiddlewareFunc {
	standard := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: defaultTimeout,
	})
	long := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: captureTimeout,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		standardNext := standard(next)
		longNext := long(next)
		return func(c echo.Context) error {
			if strings.HasSuffix(c.Path(), "/jobs/scrape") {
				return longNext(c)
			}
			return standardNext(c)
		}
	}
}
