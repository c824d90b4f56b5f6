package handler

import "github.com/storefront/shop-api/internal/core/domain"

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,max=72"`
}

// --- Response types ---

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// userDetailResponse flattens the user fields next to the success flag.
type userDetailResponse struct {
	Success bool `json:"success"`
	*domain.User
}

type productListResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []domain.Product `json:"data"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Data    *domain.Product `json:"data"`
}

type orderListResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []any  `json:"data"`
}

// ErrorResponse is the envelope every failure is rendered into.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
