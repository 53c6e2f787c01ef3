// Package identity defines the identity store client consumed by the
// authentication core. The core only reads user records; creation is used by
// sign-up and the user add command.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the requested id.
	ErrNotFound = errors.New("user not found")

	// ErrUnavailable wraps transport or backend failures of the identity store.
	ErrUnavailable = errors.New("identity store unavailable")

	// ErrConflict is returned by Create when the email is already registered.
	ErrConflict = errors.New("user with email already exists")
)

// User is a user record owned by the identity store.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// Public returns the user without its password hash.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// PublicUser is the user projection safe to render or serialize to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Store is the identity store client.
type Store interface {
	// FindByEmail returns zero or one records. If the backend returns several
	// the caller uses the first.
	FindByEmail(ctx context.Context, email string) ([]User, error)

	// FindByID returns ErrNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*User, error)

	// Create stores a new record. passwordHash must already be hashed.
	Create(ctx context.Context, email, passwordHash string) (*User, error)
}
