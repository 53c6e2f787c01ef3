package auth

import "errors"

var (
	// ErrUnknownStrategy is returned by NewVerifier for an unsupported Auth.Strategy.
	ErrUnknownStrategy = errors.New("unknown credential strategy")

	// ErrNilStore is returned when a verifier or serializer is built without an identity store.
	ErrNilStore = errors.New("identity store is nil")

	// ErrUnsupportedHash is returned when a stored hash was produced by an unknown algorithm.
	ErrUnsupportedHash = errors.New("unsupported password hash")

	// ErrUnknownHasher is returned by NewHasher for an unsupported Auth.Hasher.
	ErrUnknownHasher = errors.New("unknown password hasher")

	// ErrLDAPDisabled is returned when the ldap strategy is selected without a directory host.
	ErrLDAPDisabled = errors.New("ldap authentication is disabled")

	// ErrMalformedCredential is returned when a credential fails validation.
	ErrMalformedCredential = errors.New("missing email or password")
)
