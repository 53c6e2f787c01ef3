package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSessionExpiryTooShort error if config webserver.session.expirytime is below one minute.
	ErrSessionExpiryTooShort = errors.New("toml config webserver.session.expirytime must be at least 1m")

	// ErrEmptyIdentityURL error if the http identity store has no base url.
	ErrEmptyIdentityURL = errors.New("toml config identity.baseurl can not be empty for type http")

	// ErrInvalidCookieKey error if webserver.cookieencryptionkey is not a base64 encoded 16, 24 or 32 byte key.
	ErrInvalidCookieKey = errors.New("toml config webserver.cookieencryptionkey must be a base64 encoded 16, 24 or 32 byte key")

	// ErrNilConfig is returned when a nil *Config is passed.
	ErrNilConfig = errors.New("config can not be nil")
)
