package ports

import (
	"context"

	"github.com/storefront/shop-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput carries the optional fields of a profile update.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*domain.User, error)
}
