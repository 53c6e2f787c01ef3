package daemon

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "passgate",
		DB: config.DB{
			GormEngine: config.DBEngineSQLite,
			Name:       filepath.Join(t.TempDir(), "passgate.db"),
		},
		Webserver: config.Webserver{
			Port:         3000,
			URL:          "http://localhost:3000",
			ShutDownTime: 1,
			Session: config.Session{
				ExpiryTime: time.Hour,
				CookieName: "sid",
				Storage:    config.SessionStorage{Type: config.StorageMemory},
			},
		},
		Identity: config.Identity{Type: config.IdentityDB, Timeout: time.Second},
		Auth: config.Auth{
			Strategy:   config.StrategyLocal,
			Hasher:     config.HasherBcrypt,
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, config.ErrNilConfig)
}

func TestNew(t *testing.T) {
	d, err := New(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, d.webService)
	require.NotNil(t, d.storage)

	assert.Equal(t, ":3000", d.webService.Addr())
	require.NoError(t, d.storage.Close())
}

func TestNewRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{name: "unknown strategy", modify: func(c *config.Config) { c.Auth.Strategy = "kerberos" }},
		{name: "unknown hasher", modify: func(c *config.Config) { c.Auth.Hasher = "md5" }},
		{name: "unknown session storage", modify: func(c *config.Config) { c.Webserver.Session.Storage.Type = "etcd" }},
		{name: "unknown identity type", modify: func(c *config.Config) { c.Identity.Type = "ldif" }},
		{name: "ldap without host", modify: func(c *config.Config) { c.Auth.Strategy = config.StrategyLDAP }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)

			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestOpenIdentityStore(t *testing.T) {
	t.Run("db", func(t *testing.T) {
		store, dbStore, err := OpenIdentityStore(testConfig(t))
		require.NoError(t, err)
		assert.NotNil(t, store)
		assert.NotNil(t, dbStore)
	})

	t.Run("http", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Identity = config.Identity{Type: config.IdentityHTTP, BaseURL: "http://localhost:3004", Timeout: time.Second}

		store, dbStore, err := OpenIdentityStore(cfg)
		require.NoError(t, err)
		assert.NotNil(t, store)
		assert.Nil(t, dbStore)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Identity.Type = "ldif"

		_, _, err := OpenIdentityStore(cfg)
		assert.ErrorIs(t, err, ErrUnknownIdentityType)
	})
}

func TestSeed(t *testing.T) {
	_, store, err := OpenIdentityStore(testConfig(t))
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	require.NoError(t, seed(t.Context(), store, hasher))

	users, err := store.FindByEmail(t.Context(), seedEmail)
	require.NoError(t, err)
	require.Len(t, users, 1)

	ok, err := hasher.Compare(users[0].PasswordHash, seedPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second run leaves the populated database alone
	require.NoError(t, seed(t.Context(), store, hasher))

	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
