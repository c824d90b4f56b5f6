package domain

import "errors"

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrTooManyRequests    = errors.New("too many requests")

	// ErrPasswordTooLong is returned for passwords longer than bcrypt accepts.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrPersistenceUnavailable means neither the database nor the users file
	// accepted a write.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
