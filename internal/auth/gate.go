package auth

import "github.com/passgate/passgate/internal/identity"

// Gate decides whether a request identity may pass. It is pure.
type Gate struct{}

// IsAuthorized reports whether u is a resolved user.
func (Gate) IsAuthorized(u *identity.User) bool {
	return u != nil && u.ID != ""
}

// OwnerCheck reports whether u is authorized and owns the resource of ownerID.
func OwnerCheck(u *identity.User, ownerID string) bool {
	return Gate{}.IsAuthorized(u) && ownerID != "" && u.ID == ownerID
}
