// Package auth verifies credentials and connects sessions to users.
//
// Verification is pluggable through CredentialVerifier:
//   - LocalVerifier compares the submitted password with the hash held by the
//     identity store (bcrypt or argon2id).
//   - LDAPVerifier binds to a directory as the user and then loads the
//     identity record by email.
//
// NewVerifier picks one from the Auth.Strategy configuration value.
//
// Serializer turns an authenticated user into the IdentityToken stored in the
// session and resolves that token on later requests. Gate and OwnerCheck are
// the pure predicates the web middleware uses to protect routes.
//
// Example usage:
//
//	hasher, err := auth.NewHasher(cfg.Auth)
//	verifier, err := auth.NewVerifier(cfg.Auth, store, hasher, cfg.Identity.Timeout)
//	outcome, err := verifier.Verify(ctx, email, password)
//	if outcome.OK() {
//	    rec.SetIdentityToken(string(serializer.Serialize(outcome.User)))
//	}
package auth
