package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/core/ports"
	"github.com/storefront/shop-api/internal/pkg/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	recordAuthEvent("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

// Login checks the credentials and returns the stored user.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	recordAuthEvent("login", err)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Info().Str("ip", c.RealIP()).Msg("login rejected")
		}
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
	})
}

// GetUser returns the profile for the email in the path.
//
// @Summary      Get user profile
// @Tags         auth
// @Produce      json
// @Param        email  path      string  true  "User email"
// @Success      200    {object}  userDetailResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /auth/user/{email} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	user, err := h.authService.GetUser(c.Request().Context(), segment(c, 2))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userDetailResponse{Success: true, User: user})
}

// UpdateProfile changes the name and/or password of the user in the path.
//
// @Summary      Update user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        email  path      string                true  "User email"
// @Param        body   body      updateProfileRequest  true  "Fields to change"
// @Success      200    {object}  userResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /auth/user/{email} [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), segment(c, 2), ports.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	recordAuthEvent("update", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func recordAuthEvent(event string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMissingFields):
		result = "missing_fields"
	case errors.Is(err, domain.ErrUserExists):
		result = "exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrNothingToUpdate):
		result = "nothing_to_update"
	case errors.Is(err, domain.ErrPasswordTooLong):
		result = "password_too_long"
	default:
		result = "error"
	}
	metrics.AuthEventsTotal.WithLabelValues(event, result).Inc()
}
