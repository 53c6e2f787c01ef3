package config

import (
	"time"

	"github.com/passgate/passgate/internal/logger"
)

// Session storage backends.
const (
	StorageMemory   = "memory"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Identity store kinds.
const (
	IdentityDB   = "db"
	IdentityHTTP = "http"
)

// Credential strategies.
const (
	StrategyLocal = "local"
	StrategyLDAP  = "ldap"
)

// Password hashers.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// Redis settings for the redis session storage.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// SessionStorage selects and configures the session backing store.
type SessionStorage struct {
	Type  string // memory, mysql, postgres, redis
	Table string // table for the sql backed stores
	Redis Redis
}

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string
	Storage    SessionStorage
}

// Identity configures the identity store client.
type Identity struct {
	Type    string        // db or http
	BaseURL string        // json-server style base url for type http
	Timeout time.Duration // budget for every identity store call
}

// LDAP holds directory settings for the ldap credential strategy.
type LDAP struct {
	Host         string
	Port         int
	UseSSL       bool
	UseTLS       bool
	SkipVerify   bool
	BindDN       string
	BindPassword string
	BaseDN       string
	UserFilter   string // e.g. (mail={email})
	Timeout      time.Duration
}

// Auth selects the credential strategy and password hashing policy.
type Auth struct {
	Strategy   string // local or ldap
	Hasher     string // bcrypt or argon2id, used for new hashes
	BcryptCost int
	LDAP       LDAP
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Identity  Identity
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // base64 key for the encryptcookie middleware, empty disables it
	Session             Session // session settings
}
