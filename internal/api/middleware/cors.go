package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowedHeaders = "Content-Type, Authorization"
)

// CORS sets the same permissive headers on every response and answers
// preflight requests with 200 and an empty body. Register it with e.Pre so it
// also covers requests that match no route.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowMethods, allowedMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, allowedHeaders)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
