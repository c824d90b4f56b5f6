// Package userstore puts an optional database repository in front of the
// file repository. Every call tries the database first and falls back to the
// file when the database fails; there is no sticky state between calls.
package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/core/ports"
	"github.com/storefront/shop-api/internal/pkg/metrics"
)

const (
	backendDatabase = "database"
	backendFile     = "file"

	ModeFile     = "file"
	ModeFallback = "database+file"
)

// Store implements ports.UserRepository.
type Store struct {
	db   ports.UserRepository
	file ports.UserRepository
	log  zerolog.Logger
}

// New builds the adapter. db may be nil, in which case only the file is used.
func New(db, file ports.UserRepository, log zerolog.Logger) *Store {
	return &Store{db: db, file: file, log: log}
}

// Mode reports which backends are configured.
func (s *Store) Mode() string {
	if s.db == nil {
		return ModeFile
	}
	return ModeFallback
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	return withFallback(ctx, s, "list", func(ctx context.Context, r ports.UserRepository) ([]domain.User, error) {
		return r.List(ctx)
	})
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return withFallback(ctx, s, "find", func(ctx context.Context, r ports.UserRepository) (*domain.User, error) {
		return r.FindByEmail(ctx, email)
	})
}

func (s *Store) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := withFallback(ctx, s, "create", func(ctx context.Context, r ports.UserRepository) (*domain.User, error) {
		return r.Create(ctx, user)
	})
	if err != nil && !isAnswer(err) {
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return created, err
}

func (s *Store) Update(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	updated, err := withFallback(ctx, s, "update", func(ctx context.Context, r ports.UserRepository) (*domain.User, error) {
		return r.Update(ctx, email, patch)
	})
	if err != nil && !isAnswer(err) {
		return nil, fmt.Errorf("update user: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return updated, err
}

func withFallback[T any](ctx context.Context, s *Store, op string, fn func(context.Context, ports.UserRepository) (T, error)) (T, error) {
	if s.db != nil {
		v, err := fn(ctx, s.db)
		record(backendDatabase, op, err)
		if err == nil || isAnswer(err) {
			return v, err
		}
		metrics.UserStoreFallbacksTotal.WithLabelValues(op).Inc()
		s.log.Warn().Err(err).Str("operation", op).Msg("database unavailable, using file store")
	}

	v, err := fn(ctx, s.file)
	record(backendFile, op, err)
	if err != nil && !isAnswer(err) {
		s.log.Error().Err(err).Str("operation", op).Msg("file store failed")
	}
	return v, err
}

// isAnswer reports whether err is a domain result rather than a backend failure.
func isAnswer(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserExists)
}

func record(backend, op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrUserExists):
		result = "exists"
	default:
		result = "error"
	}
	metrics.UserStoreOperationsTotal.WithLabelValues(backend, op, result).Inc()
}
