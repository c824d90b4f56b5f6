package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/shop-api/internal/api/handler"
	"github.com/storefront/shop-api/internal/pkg/metrics"
)

// Metrics records request count and latency. Errors are rendered here so the
// recorded status code is the one the client sees.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			resource := handler.Resource(c)
			if resource == "" {
				resource = c.Path()
			}
			if resource == "" {
				resource = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequestsTotal.WithLabelValues(resource, method, strconv.Itoa(c.Response().Status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
