// Package login provides HTTP handlers and helpers for user authentication.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

// ErrInvalidFormData is returned when the submitted login form cannot be parsed
// or fails validation.
var ErrInvalidFormData = errors.New("invalid form data")
