package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
)

// UserRepository keeps all users in a single JSON array on disk. Every write
// rewrites the whole document without locking, so concurrent writers race and
// the last one wins.
type UserRepository struct {
	path string
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserRepository(path string, log zerolog.Logger) *UserRepository {
	return &UserRepository{
		path: path,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// fileUser is the on-disk record. Unlike domain.User it serializes the hash.
type fileUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toFileUser(u *domain.User) fileUser {
	return fileUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (fu fileUser) toDomain() domain.User {
	return domain.User{
		ID:           fu.ID,
		Name:         fu.Name,
		Email:        fu.Email,
		PasswordHash: fu.Password,
		CreatedAt:    fu.CreatedAt,
		UpdatedAt:    fu.UpdatedAt,
	}
}

// Path returns the users file location.
func (r *UserRepository) Path() string {
	return r.path
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	records := r.read()
	out := make([]domain.User, len(records))
	for i, rec := range records {
		out[i] = rec.toDomain()
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, rec := range r.read() {
		if rec.Email == email {
			u := rec.toDomain()
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Create appends the user with id max(id)+1. The max+1 assignment is not safe
// under concurrent writers.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	records := r.read()

	var maxID int64
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}

	created := *user
	created.ID = maxID + 1
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	if err := r.write(append(records, toFileUser(&created))); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) Update(_ context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	records := r.read()
	for i := range records {
		if records[i].Email != email {
			continue
		}
		u := records[i].toDomain()
		patch.Apply(&u, r.now())
		records[i] = toFileUser(&u)
		if err := r.write(records); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// read never fails: a missing or corrupt file is an empty store.
func (r *UserRepository) read() []fileUser {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn().Err(err).Str("path", r.path).Msg("users file unreadable, treating as empty")
		}
		return nil
	}

	var records []fileUser
	if err := json.Unmarshal(data, &records); err != nil {
		r.log.Warn().Err(err).Str("path", r.path).Msg("users file is not valid JSON, treating as empty")
		return nil
	}
	return records
}

func (r *UserRepository) write(records []fileUser) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(r.path), err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}
