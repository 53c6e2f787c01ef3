package auth

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// Credential is an email and password pair submitted by a client.
type Credential struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Normalize trims the email and lowercases it. The password is left untouched.
func (c *Credential) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

// Validate reports ErrMalformedCredential when either field is missing or the
// email is not an address.
func (c Credential) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}

	return nil
}
