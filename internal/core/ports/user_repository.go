package ports

import (
	"context"

	"github.com/storefront/shop-api/internal/core/domain"
)

// UserRepository is implemented by every user backend (database, file) and by
// the fallback adapter that sits in front of them.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists the user without re-checking email uniqueness.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error)
}

// PasswordHasher is a slow salted one-way transform.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}
