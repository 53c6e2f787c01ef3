// Package httpstore implements identity.Store against a json-server style
// REST backend: GET /users?email=, GET /users/{id} and POST /users.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/passgate/passgate/internal/identity"
)

const (
	usersPath = "users"

	// maxBodyBytes bounds what we read from the backend.
	maxBodyBytes = 1 << 20
)

// flexibleID accepts both string and numeric ids, json-server emits either.
type flexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = flexibleID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*f = flexibleID(n.String())

	return nil
}

type wireUser struct {
	ID       flexibleID `json:"id"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
}

func (w wireUser) toIdentity() identity.User {
	return identity.User{ID: string(w.ID), Email: w.Email, PasswordHash: w.Password}
}

// Store is an HTTP identity store client.
type Store struct {
	base   *url.URL
	client *http.Client
}

var _ identity.Store = (*Store)(nil)

// New creates a client for the backend at baseURL. timeout is a hard upper
// bound per call on top of the caller's context.
func New(baseURL string, timeout time.Duration) (*Store, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(err, "invalid identity store url")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid identity store url scheme %q", u.Scheme)
	}

	return &Store{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (s *Store) do(ctx context.Context, method, ref string, body any, out any) (int, error) {
	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "failed to encode request")
		}

		reader = bytes.NewReader(buf)
	}

	target, err := s.base.Parse(ref)
	if err != nil {
		return 0, errors.Wrap(err, "invalid request path")
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(errors.WithMessage(identity.ErrUnavailable, err.Error()), method+" "+target.Path)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, errors.Wrapf(identity.ErrUnavailable, "%s %s: status %d", method, target.Path, resp.StatusCode)
	}

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(errors.WithMessage(identity.ErrUnavailable, err.Error()), "failed to decode response")
		}
	}

	return resp.StatusCode, nil
}

// FindByEmail queries GET /users?email=.
func (s *Store) FindByEmail(ctx context.Context, email string) ([]identity.User, error) {
	var wire []wireUser

	status, err := s.do(ctx, http.MethodGet, usersPath+"?"+url.Values{"email": {email}}.Encode(), nil, &wire)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, errors.Wrapf(identity.ErrUnavailable, "unexpected status %d", status)
	}

	users := make([]identity.User, 0, len(wire))
	for _, w := range wire {
		users = append(users, w.toIdentity())
	}

	return users, nil
}

// FindByID queries GET /users/{id}.
func (s *Store) FindByID(ctx context.Context, id string) (*identity.User, error) {
	if id == "" {
		return nil, identity.ErrNotFound
	}

	var wire wireUser

	status, err := s.do(ctx, http.MethodGet, usersPath+"/"+url.PathEscape(id), nil, &wire)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusNotFound:
		return nil, identity.ErrNotFound
	case status != http.StatusOK:
		return nil, errors.Wrapf(identity.ErrUnavailable, "unexpected status %d", status)
	case wire.ID == "":
		// json-server answers {} for unknown ids in some versions
		return nil, identity.ErrNotFound
	}

	u := wire.toIdentity()

	return &u, nil
}

// Create posts a new user to POST /users.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (*identity.User, error) {
	var wire wireUser

	req := map[string]string{"email": email, "password": passwordHash}

	status, err := s.do(ctx, http.MethodPost, usersPath, req, &wire)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return nil, identity.ErrConflict
	default:
		return nil, errors.Wrapf(identity.ErrUnavailable, "unexpected status %d", status)
	}

	u := wire.toIdentity()

	return &u, nil
}
