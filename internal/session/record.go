package session

import (
	"time"
)

// Record is the server side state of one session.
type Record struct {
	ID            string         `json:"-"`
	IdentityToken string         `json:"identity,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Flash         *string        `json:"flash,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`

	modified bool
}

func newRecord(id string) *Record {
	return &Record{
		ID:         id,
		Attributes: map[string]any{},
		CreatedAt:  time.Now().UTC(),
		modified:   true,
	}
}

// Anonymous reports whether no identity is bound to the session.
func (r *Record) Anonymous() bool {
	return r.IdentityToken == ""
}

// Modified reports whether the record has unsaved changes.
func (r *Record) Modified() bool {
	return r.modified
}

// Get returns an attribute.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Attributes[key]
	return v, ok
}

// Int returns a numeric attribute. Records decoded from JSON hold float64s.
func (r *Record) Int(key string) int {
	switch v := r.Attributes[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Set stores an attribute.
func (r *Record) Set(key string, value any) {
	if r.Attributes == nil {
		r.Attributes = map[string]any{}
	}

	r.Attributes[key] = value
	r.modified = true
}

// Delete removes an attribute.
func (r *Record) Delete(key string) {
	if _, ok := r.Attributes[key]; !ok {
		return
	}

	delete(r.Attributes, key)
	r.modified = true
}

// SetIdentityToken binds an identity to the session.
func (r *Record) SetIdentityToken(token string) {
	r.IdentityToken = token
	r.modified = true
}

// ClearIdentityToken makes the session anonymous again.
func (r *Record) ClearIdentityToken() {
	if r.IdentityToken == "" {
		return
	}

	r.IdentityToken = ""
	r.modified = true
}
