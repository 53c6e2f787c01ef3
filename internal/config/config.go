// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON names the environment variable holding a JSON document merged over main.toml.
	EnvConfigJSON = "PASSGATE_CONFIG_JSON"

	mainConfigFile = "main.toml"

	defaultShutDownTime    = 5
	defaultSessionExpiry   = 24 * time.Hour
	minSessionExpiry       = time.Minute
	defaultCookieName      = "sid"
	defaultIdentityTimeout = 5 * time.Second
	defaultSessionTable    = "sessions"
	defaultRedisPrefix     = "passgate:sess:"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, mainConfigFile))
	v.SetConfigType("toml")

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config json from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if key := c.Webserver.CookieEncryptionKey; key != "" {
		raw, err := base64.StdEncoding.DecodeString(key)
		if err != nil || (len(raw) != 16 && len(raw) != 24 && len(raw) != 32) {
			return errors.Wrap(ErrInvalidCookieKey, invalidErrMessage)
		}
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	sess := &c.Webserver.Session

	if sess.ExpiryTime == 0 {
		sess.ExpiryTime = defaultSessionExpiry
	}

	if sess.ExpiryTime < minSessionExpiry {
		return errors.Wrap(ErrSessionExpiryTooShort, invalidErrMessage)
	}

	if sess.CookieName == "" {
		sess.CookieName = defaultCookieName
	}

	if sess.Storage.Type == "" {
		sess.Storage.Type = StorageMemory
	}

	if sess.Storage.Table == "" {
		sess.Storage.Table = defaultSessionTable
	}

	if sess.Storage.Redis.Prefix == "" {
		sess.Storage.Redis.Prefix = defaultRedisPrefix
	}

	if c.Identity.Type == "" {
		c.Identity.Type = IdentityDB
	}

	if c.Identity.Type == IdentityHTTP && c.Identity.BaseURL == "" {
		return errors.Wrap(ErrEmptyIdentityURL, invalidErrMessage)
	}

	if c.Identity.Timeout == 0 {
		c.Identity.Timeout = defaultIdentityTimeout
	}

	if c.Auth.Strategy == "" {
		c.Auth.Strategy = StrategyLocal
	}

	if c.Auth.Hasher == "" {
		c.Auth.Hasher = HasherBcrypt
	}

	return nil
}
