package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStorage) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := NewRedisStorage(client, "test:")
	t.Cleanup(func() {
		_ = s.Close()
	})

	return mr, s
}

func TestRedisStorage(t *testing.T) {
	mr, s := newTestRedis(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("a", []byte("1"), time.Minute))
	assert.True(t, mr.Exists("test:a"))
	assert.Equal(t, time.Minute, mr.TTL("test:a"))

	val, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("test:a"))
	require.NoError(t, s.Delete("a"))
}

func TestRedisStorageExpiry(t *testing.T) {
	mr, s := newTestRedis(t)

	require.NoError(t, s.Set("a", []byte("1"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorageResetKeepsForeignKeys(t *testing.T) {
	mr, s := newTestRedis(t)

	require.NoError(t, mr.Set("other:key", "x"))
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisStorageUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	addr := mr.Addr()
	mr.Close()

	s := NewRedisStorage(redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1}), "")
	defer func() {
		_ = s.Close()
	}()

	_, err = s.Get("a")
	require.Error(t, err)
	require.Error(t, s.Set("a", []byte("1"), 0))
}

func TestManagerOverRedis(t *testing.T) {
	_, s := newTestRedis(t)

	m, err := New(Config{Storage: s, Expiration: time.Hour})
	require.NoError(t, err)

	ctx := t.Context()

	rec, fresh, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)
	require.True(t, fresh)

	rec.SetIdentityToken("1")
	require.NoError(t, m.Persist(ctx, rec))

	loaded, fresh, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, "1", loaded.IdentityToken)
}
