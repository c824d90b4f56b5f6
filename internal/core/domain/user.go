package domain

import "time"

// User is a storefront account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch carries the fields a profile update may change.
// Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	PasswordHash *string
}

// Empty reports whether the patch would change nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.PasswordHash == nil
}

// Apply merges the patch into u and stamps UpdatedAt.
func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	u.UpdatedAt = now
}
