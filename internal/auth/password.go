package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/passgate/passgate/internal/config"
)

const (
	argon2idPrefix = "$argon2id$"

	// DefaultBcryptCost is used when Auth.BcryptCost is zero.
	DefaultBcryptCost = 10
)

// PasswordHasher hashes new passwords and compares submitted ones against
// stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns false without error on a plain mismatch.
	Compare(hash, password string) (bool, error)
}

// NewHasher returns the hasher for cfg.Hasher. Compare on any of them accepts
// both bcrypt and argon2id hashes.
func NewHasher(cfg config.Auth) (PasswordHasher, error) {
	switch cfg.Hasher {
	case "", config.HasherBcrypt:
		return NewBcryptHasher(cfg.BcryptCost), nil
	case config.HasherArgon2id:
		return NewArgon2idHasher(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, cfg.Hasher)
	}
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. Out of range costs fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(b), nil
}

// Compare implements PasswordHasher.
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	return comparePassword(hash, password)
}

// Argon2idHasher hashes with argon2id.
type Argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2idHasher creates an argon2id hasher. nil params means argon2id.DefaultParams.
func NewArgon2idHasher(params *argon2id.Params) *Argon2idHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}

	return &Argon2idHasher{params: params}
}

// Hash implements PasswordHasher.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hash, nil
}

// Compare implements PasswordHasher.
func (h *Argon2idHasher) Compare(hash, password string) (bool, error) {
	return comparePassword(hash, password)
}

// comparePassword dispatches on the hash prefix.
func comparePassword(hash, password string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2idPrefix):
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, fmt.Errorf("failed to compare argon2id hash: %w", err)
		}

		return match, nil
	case isBcrypt(hash):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("failed to compare bcrypt hash: %w", err)
		}

		return true, nil
	default:
		return false, ErrUnsupportedHash
	}
}

func isBcrypt(hash string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}

	return false
}
