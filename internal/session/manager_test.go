package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/session/sessiontest"
)

func newTestManager(t *testing.T) (*Manager, *sessiontest.Storage) {
	t.Helper()

	storage := sessiontest.New()

	m, err := New(Config{Storage: storage, Expiration: time.Hour})
	require.NoError(t, err)

	return m, storage
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNilStorage)

	m, err := New(Config{Storage: sessiontest.New()})
	require.NoError(t, err)
	assert.Equal(t, DefaultExpiration, m.Expiration())
	assert.Equal(t, DefaultCookieName, m.CookieName())
}

func TestResolveOrCreate(t *testing.T) {
	ctx := context.Background()
	m, storage := newTestManager(t)

	rec, fresh, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, rec.Anonymous())
	assert.False(t, rec.Modified())
	assert.True(t, storage.Has(rec.ID))
	assert.Equal(t, time.Hour, storage.TTL(rec.ID))

	_, err = uuid.Parse(rec.ID)
	require.NoError(t, err)

	again, fresh, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, rec.ID, again.ID)
}

func TestResolveOrCreateUnknownAndCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(s *sessiontest.Storage)
		id    string
	}{
		{name: "unknown id", id: "does-not-exist"},
		{
			name:  "corrupt record",
			id:    "corrupt",
			setup: func(s *sessiontest.Storage) { s.Put("corrupt", []byte("{not json")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, storage := newTestManager(t)
			if tt.setup != nil {
				tt.setup(storage)
			}

			rec, fresh, err := m.ResolveOrCreate(ctx, tt.id)
			require.NoError(t, err)
			assert.True(t, fresh)
			assert.NotEqual(t, tt.id, rec.ID)
		})
	}
}

func TestResolveOrCreateStorageFailure(t *testing.T) {
	m, storage := newTestManager(t)
	storage.Fail(true)

	_, _, err := m.ResolveOrCreate(context.Background(), "some-id")
	require.ErrorIs(t, err, sessiontest.ErrInjected)

	_, _, err = m.ResolveOrCreate(context.Background(), "")
	require.ErrorIs(t, err, sessiontest.ErrInjected)
}

func TestDistinctIDs(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	const n = 10000

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)

	for w := 0; w < 8; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := 0; i < n/8; i++ {
				rec, _, err := m.ResolveOrCreate(ctx, "")
				if !assert.NoError(t, err) {
					return
				}

				mu.Lock()
				seen[rec.ID] = struct{}{}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Len(t, seen, n)
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, storage := newTestManager(t)

	rec, _, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)

	rec.SetIdentityToken("7")
	rec.Set("views", 3)
	require.True(t, rec.Modified())
	require.NoError(t, m.Persist(ctx, rec))
	assert.False(t, rec.Modified())

	loaded, _, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", loaded.IdentityToken)
	assert.Equal(t, 3, loaded.Int("views"))
	assert.WithinDuration(t, rec.CreatedAt, loaded.CreatedAt, time.Second)

	writes := storage.Sets()
	require.NoError(t, m.Persist(ctx, loaded))
	assert.Equal(t, writes, storage.Sets(), "unmodified record must not be written")
}

func TestPersistLastWriterWins(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	rec, _, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)

	a, _, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	b, _, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)

	a.Set("k", "a")
	b.Set("k", "b")
	require.NoError(t, m.Persist(ctx, a))
	require.NoError(t, m.Persist(ctx, b))

	got, _, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)

	v, ok := got.Get("k")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	m, storage := newTestManager(t)

	rec, _, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, rec.ID))
	assert.False(t, storage.Has(rec.ID))
	require.NoError(t, m.Destroy(ctx, rec.ID))
	require.NoError(t, m.Destroy(ctx, ""))

	next, fresh, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NotEqual(t, rec.ID, next.ID)
}

func TestRegenerate(t *testing.T) {
	ctx := context.Background()
	m, storage := newTestManager(t)

	rec, _, err := m.ResolveOrCreate(ctx, "")
	require.NoError(t, err)

	rec.Set("views", 1)
	oldID := rec.ID

	require.NoError(t, m.Regenerate(ctx, rec))
	assert.NotEqual(t, oldID, rec.ID)
	assert.False(t, storage.Has(oldID))
	assert.True(t, storage.Has(rec.ID))

	moved, fresh, err := m.ResolveOrCreate(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, 1, moved.Int("views"))

	_, fresh, err = m.ResolveOrCreate(ctx, oldID)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRecordAttributes(t *testing.T) {
	rec := newRecord("x")
	rec.modified = false

	rec.Delete("missing")
	assert.False(t, rec.Modified())

	rec.ClearIdentityToken()
	assert.False(t, rec.Modified())

	rec.Set("a", 1)
	assert.True(t, rec.Modified())

	rec.modified = false
	rec.Delete("a")
	assert.True(t, rec.Modified())

	_, ok := rec.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, rec.Int("a"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "01234567", ShortID("0123456789"))
}
