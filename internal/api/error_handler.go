package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/api/handler"
	"github.com/storefront/shop-api/internal/core/domain"
)

const persistenceHint = "Unable to save user data. Configure MONGODB_URI to enable database storage."

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors and answers with a generic message.
//   - Renders {"success": false, "message": "..."}; with exposeDetails the
//     underlying error text is added as "error".
func NewHTTPErrorHandler(log zerolog.Logger, exposeDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, internal := resolveError(err)
		if internal {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		resp := handler.ErrorResponse{Success: false, Message: msg}
		if internal && exposeDetails {
			resp.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

// resolveError maps err to a status code and client message. internal is true
// for failures that are not a client mistake.
func resolveError(err error) (code int, msg string, internal bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), he.Code >= http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "All fields are required", false
	case errors.Is(err, domain.ErrNothingToUpdate):
		return http.StatusBadRequest, "Nothing to update", false
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes", false
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists", false
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", false
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", false
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "Product not found", false
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "Method not allowed", false
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, "Too many requests", false
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return http.StatusInternalServerError, persistenceHint, true
	}

	return http.StatusInternalServerError, "Internal server error", true
}
