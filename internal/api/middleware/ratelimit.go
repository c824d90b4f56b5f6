package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/pkg/metrics"
)

// Limiter records an attempt for key and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LoginRateLimit rejects login attempts from a client IP once the limiter says
// no. Limiter failures let the request through.
func LoginRateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), "login:"+ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LoginRateLimitedTotal.Inc()
				log.Warn().Str("ip", ip).Msg("login rate limit exceeded")
				return domain.ErrTooManyRequests
			}
			return next(c)
		}
	}
}
