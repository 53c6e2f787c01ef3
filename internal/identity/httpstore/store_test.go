package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/identity"
)

// fakeJSONServer mimics the json-server /users resource with numeric ids.
type fakeJSONServer struct {
	mu    sync.Mutex
	users []map[string]any
}

func (f *fakeJSONServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users":
		out := []map[string]any{}

		for _, u := range f.users {
			if email := r.URL.Query().Get("email"); email == "" || u["email"] == email {
				out = append(out, u)
			}
		}

		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/users/"):
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		for _, u := range f.users {
			if strconv.Itoa(u["id"].(int)) == id {
				_ = json.NewEncoder(w).Encode(u)
				return
			}
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}"))
	case r.Method == http.MethodPost && r.URL.Path == "/users":
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		in["id"] = len(f.users) + 1
		f.users = append(f.users, in)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, h http.Handler) *Store {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	return s
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeJSONServer{})

	created, err := s.Create(ctx, "a@b.com", "$2a$hash")
	require.NoError(t, err)
	assert.Equal(t, identity.User{ID: "1", Email: "a@b.com", PasswordHash: "$2a$hash"}, *created)

	found, err := s.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, *created, found[0])

	byID, err := s.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, created, byID)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeJSONServer{})

	users, err := s.FindByEmail(ctx, "nobody@b.com")
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = s.FindByID(ctx, "7")
	assert.ErrorIs(t, err, identity.ErrNotFound)

	_, err = s.FindByID(ctx, "")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}

func TestEmptyObjectIsNotFound(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))

	_, err := s.FindByID(context.Background(), "1")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}

func TestStringIDs(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"f3a1","email":"a@b.com","password":"h"}]`))
	}))

	users, err := s.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "f3a1", users[0].ID)
}

func TestUnavailable(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
		{
			name: "slow backend",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t, tc.handler)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			_, err := s.FindByEmail(ctx, "a@b.com")
			assert.ErrorIs(t, err, identity.ErrUnavailable)

			_, err = s.FindByID(ctx, "1")
			assert.ErrorIs(t, err, identity.ErrUnavailable)
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := New(url, time.Second)
	require.NoError(t, err)

	_, err = s.FindByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, identity.ErrUnavailable)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", time.Second)
	require.Error(t, err)
}
