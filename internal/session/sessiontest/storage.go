// Package sessiontest provides a fiber.Storage double for tests.
package sessiontest

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrInjected is returned by Storage calls while Fail is set.
var ErrInjected = errors.New("injected storage failure")

type entry struct {
	val []byte
	exp time.Duration
}

// Storage is an in-memory fiber.Storage that records writes.
type Storage struct {
	mu      sync.Mutex
	data    map[string]entry
	sets    int
	deletes int
	fail    bool
}

var _ fiber.Storage = (*Storage)(nil)

// New creates an empty storage.
func New() *Storage {
	return &Storage{data: map[string]entry{}}
}

// Get implements fiber.Storage.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return nil, ErrInjected
	}

	e, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	return append([]byte(nil), e.val...), nil
}

// Set implements fiber.Storage.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return ErrInjected
	}

	s.sets++
	s.data[key] = entry{val: append([]byte(nil), val...), exp: exp}

	return nil
}

// Delete implements fiber.Storage.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return ErrInjected
	}

	s.deletes++
	delete(s.data, key)

	return nil
}

// Reset implements fiber.Storage.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string]entry{}

	return nil
}

// Close implements fiber.Storage.
func (s *Storage) Close() error {
	return nil
}

// Put stores raw bytes, bypassing the write counter.
func (s *Storage) Put(key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{val: val}
}

// Has reports whether key is stored.
func (s *Storage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data[key]

	return ok
}

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}

// Sets returns how many writes happened.
func (s *Storage) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sets
}

// TTL returns the expiration the key was last written with.
func (s *Storage) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data[key].exp
}

// Fail makes every later call return ErrInjected until cleared.
func (s *Storage) Fail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fail = fail
}
