package session

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Flash is a single slot message channel carried by a session record. A
// second Push overwrites an unread message.
type Flash struct {
	manager *Manager
}

// NewFlash creates a flash channel persisting through m.
func NewFlash(m *Manager) *Flash {
	return &Flash{manager: m}
}

// Push sets the message. The record is written by the next Persist.
func (f *Flash) Push(rec *Record, msg string) {
	rec.Flash = &msg
	rec.modified = true
}

// PushNow sets the message and writes the record.
func (f *Flash) PushNow(ctx context.Context, rec *Record, msg string) error {
	f.Push(rec, msg)
	return f.manager.Persist(ctx, rec)
}

// Pop returns and clears the message. The cleared record is written right
// away so the message is delivered once.
func (f *Flash) Pop(ctx context.Context, rec *Record) (string, bool) {
	if rec == nil || rec.Flash == nil {
		return "", false
	}

	msg := *rec.Flash
	rec.Flash = nil
	rec.modified = true

	if err := f.manager.Persist(ctx, rec); err != nil {
		log.Warn().Err(err).Str("session_id", ShortID(rec.ID)).Msg("failed to persist popped flash")
	}

	return msg, true
}
