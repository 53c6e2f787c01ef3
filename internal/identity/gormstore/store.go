// Package gormstore implements identity.Store on top of gorm.
package gormstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/passgate/passgate/internal/db/models"
	"github.com/passgate/passgate/internal/identity"
)

// Store reads and creates users in the identity database.
type Store struct {
	db *gorm.DB
}

var _ identity.Store = (*Store)(nil)

// New creates a gorm backed identity store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func toIdentity(u *models.User) identity.User {
	return identity.User{
		ID:           u.IDString(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

func unavailable(err error, msg string) error {
	return errors.Wrap(errors.WithMessage(identity.ErrUnavailable, err.Error()), msg)
}

// FindByEmail returns the users registered with email, at most one.
func (s *Store) FindByEmail(ctx context.Context, email string) ([]identity.User, error) {
	var users []models.User

	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Limit(1).
		Find(&users).Error
	if err != nil {
		return nil, unavailable(err, "failed to query user by email")
	}

	out := make([]identity.User, 0, len(users))
	for i := range users {
		out = append(out, toIdentity(&users[i]))
	}

	return out, nil
}

// FindByID returns the user with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (*identity.User, error) {
	pk, err := models.ParseID(id)
	if err != nil {
		// not a key this store ever issued
		return nil, identity.ErrNotFound
	}

	var user models.User

	err = s.db.WithContext(ctx).First(&user, pk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrNotFound
	}

	if err != nil {
		return nil, unavailable(err, "failed to query user by id")
	}

	out := toIdentity(&user)

	return &out, nil
}

// Create inserts a new user. Emails are stored lower case.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (*identity.User, error) {
	email = strings.ToLower(email)

	var count int64

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, unavailable(err, "failed to check existing user")
	}

	if count > 0 {
		return nil, identity.ErrConflict
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, identity.ErrConflict
		}

		return nil, unavailable(err, "failed to create user")
	}

	out := toIdentity(&user)

	return &out, nil
}

// Delete removes a user. The web layer never calls it; it exists for the CLI and tests.
func (s *Store) Delete(ctx context.Context, id string) error {
	pk, err := models.ParseID(id)
	if err != nil {
		return identity.ErrNotFound
	}

	res := s.db.WithContext(ctx).Delete(&models.User{}, pk)
	if res.Error != nil {
		return unavailable(res.Error, "failed to delete user")
	}

	if res.RowsAffected == 0 {
		return identity.ErrNotFound
	}

	return nil
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, unavailable(err, "failed to count users")
	}

	return n, nil
}
