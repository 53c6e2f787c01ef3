package models

import (
	"strconv"
	"time"
)

// User represents a user account in the identity database.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the login name, unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// PasswordHash is the bcrypt or argon2id hash of the password.
	PasswordHash string `gorm:"size:255;not null"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// IDString formats the primary key the way it travels in identity tokens.
func (u *User) IDString() string {
	return strconv.FormatUint(u.ID, 10)
}

// ParseID parses an identity token id back to the primary key.
func ParseID(id string) (uint64, error) {
	return strconv.ParseUint(id, 10, 64)
}
