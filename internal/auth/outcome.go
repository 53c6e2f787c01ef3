package auth

import "github.com/passgate/passgate/internal/identity"

// OutcomeKind tells whether a verification succeeded.
type OutcomeKind int

// Outcome kinds.
const (
	Rejected OutcomeKind = iota
	Authenticated
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	if k == Authenticated {
		return "authenticated"
	}

	return "rejected"
}

// Rejection reasons shown to clients.
const (
	ReasonInvalidCredentials = "invalid credentials"
	ReasonStoreUnavailable   = "store unavailable"
)

// Outcome is the result of a credential verification. User is set only for
// Authenticated, Reason only for Rejected.
type Outcome struct {
	Kind   OutcomeKind
	User   *identity.User
	Reason string
}

// OK reports whether the outcome is Authenticated.
func (o Outcome) OK() bool {
	return o.Kind == Authenticated && o.User != nil
}

func authenticated(u *identity.User) Outcome {
	return Outcome{Kind: Authenticated, User: u}
}

func rejected(reason string) Outcome {
	return Outcome{Kind: Rejected, Reason: reason}
}

// label is the metric label of the outcome.
func (o Outcome) label() string {
	switch {
	case o.OK():
		return "authenticated"
	case o.Reason == ReasonStoreUnavailable:
		return "unavailable"
	default:
		return "invalid"
	}
}
