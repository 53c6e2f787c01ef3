// Package memstore is an in-memory identity.Store used by tests.
package memstore

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/passgate/passgate/internal/identity"
)

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	users  []identity.User
	nextID int

	// Err, when set, is returned by every call.
	Err error

	// Stall makes every call block until its context ends, like a hung database.
	Stall bool
}

var _ identity.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{nextID: 1}
}

// FindByEmail implements identity.Store.
func (s *Store) FindByEmail(ctx context.Context, email string) ([]identity.User, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []identity.User

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}

	return out, nil
}

// FindByID implements identity.Store.
func (s *Store) FindByID(ctx context.Context, id string) (*identity.User, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}

	return nil, identity.ErrNotFound
}

// Create implements identity.Store.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (*identity.User, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, identity.ErrConflict
		}
	}

	u := identity.User{ID: strconv.Itoa(s.nextID), Email: strings.ToLower(email), PasswordHash: passwordHash}
	s.nextID++
	s.users = append(s.users, u)

	return &u, nil
}

func (s *Store) check(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}

	if s.Stall {
		<-ctx.Done()
	}

	if err := ctx.Err(); err != nil {
		return identity.ErrUnavailable
	}

	return nil
}
