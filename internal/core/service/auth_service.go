package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/core/ports"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths do the same bcrypt work.
const dummyPassword = "storefront-dummy-password"

// AuthService implements registration, login and profile management.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}

	// Check-then-create is not atomic; concurrent registrations can both pass.
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.burnComparison(password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if s.hasher.Compare(user.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.FindByEmail(ctx, email)
}

// UpdateProfile applies the provided fields only. Blank values count as absent.
// The name is trimmed; a non-blank password is hashed exactly as given.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, in ports.UpdateProfileInput) (*domain.User, error) {
	var patch domain.UserPatch
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			patch.Name = &name
		}
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return nil, domain.ErrNothingToUpdate
	}

	updated, err := s.users.Update(ctx, email, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("email", email).
		Bool("name_changed", patch.Name != nil).
		Bool("password_changed", patch.PasswordHash != nil).
		Msg("profile updated")
	return updated, nil
}

func (s *AuthService) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}
