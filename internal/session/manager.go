package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultExpiration is the record TTL when none is configured.
	DefaultExpiration = 24 * time.Hour

	// DefaultCookieName is the session cookie name when none is configured.
	DefaultCookieName = "sid"
)

// Config configures a Manager.
type Config struct {
	// Storage holds encoded records keyed by session id.
	Storage fiber.Storage

	// Expiration is the TTL of a record, refreshed on every write.
	Expiration time.Duration

	// CookieName is the name of the cookie carrying the session id.
	CookieName string
}

// Manager owns the session id lifecycle over a fiber.Storage backing store.
// It is safe for concurrent use if the storage is.
type Manager struct {
	storage    fiber.Storage
	expiration time.Duration
	cookieName string
	newID      func() (string, error)
}

// New creates a session manager.
func New(cfg Config) (*Manager, error) {
	if cfg.Storage == nil {
		return nil, ErrNilStorage
	}

	if cfg.Expiration <= 0 {
		cfg.Expiration = DefaultExpiration
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return &Manager{
		storage:    cfg.Storage,
		expiration: cfg.Expiration,
		cookieName: cfg.CookieName,
		newID:      generateID,
	}, nil
}

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Expiration returns the record TTL.
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

// ResolveOrCreate loads the record for cookieID. An empty, unknown or corrupt
// id yields a new persisted record; fresh is true when the caller must set
// the cookie.
func (m *Manager) ResolveOrCreate(ctx context.Context, cookieID string) (*Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	if cookieID != "" {
		rec, err := m.load(cookieID)

		switch {
		case err == nil && rec != nil:
			return rec, false, nil
		case err == nil:
			log.Debug().Str("session_id", ShortID(cookieID)).Msg("unknown session id, creating new session")
		case isCorrupt(err):
			log.Warn().Err(err).Str("session_id", ShortID(cookieID)).Msg("discarding corrupt session record")
		default:
			return nil, false, err
		}
	}

	id, err := m.newID()
	if err != nil {
		return nil, false, err
	}

	rec := newRecord(id)
	if err = m.Persist(ctx, rec); err != nil {
		return nil, false, err
	}

	observeCreated()

	return rec, true, nil
}

// load returns nil without error for an unknown id.
func (m *Manager) load(id string) (*Record, error) {
	raw, err := m.storage.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if len(raw) == 0 {
		return nil, nil //nolint:nilnil // unknown id
	}

	rec := new(Record)
	if err = json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}

	rec.ID = id

	if rec.Attributes == nil {
		rec.Attributes = map[string]any{}
	}

	return rec, nil
}

// Persist writes the record if it was modified. The previous value of the
// key is overwritten, last writer wins.
func (m *Manager) Persist(ctx context.Context, rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}

	if !rec.modified {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err = m.storage.Set(rec.ID, raw, m.expiration); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	rec.modified = false

	return nil
}

// Destroy removes the record for id. A missing id is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.storage.Delete(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Regenerate moves the record to a fresh id and deletes the old key.
func (m *Manager) Regenerate(ctx context.Context, rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}

	id, err := m.newID()
	if err != nil {
		return err
	}

	oldID := rec.ID
	rec.ID = id
	rec.modified = true

	if err = m.Persist(ctx, rec); err != nil {
		rec.ID = oldID
		return err
	}

	if err = m.Destroy(ctx, oldID); err != nil {
		log.Warn().Err(err).Str("session_id", ShortID(oldID)).Msg("failed to delete rotated session")
	}

	return nil
}

func generateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return id.String(), nil
}

// ShortID truncates a session id for logging.
func ShortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}

	return id[:n]
}
