package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/identity"
)

const (
	defaultLDAPTimeout = 10 * time.Second
	defaultUserFilter  = "(mail={email})"
	emailPlaceholder   = "{email}"
)

// ldapConn is the subset of *ldap.Conn the verifier uses.
type ldapConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// LDAPVerifier verifies credentials by binding to a directory as the user.
// The identity record is still loaded from the identity store; the directory
// never provisions records.
type LDAPVerifier struct {
	cfg     config.LDAP
	store   identity.Store
	timeout time.Duration
	dial    func(ctx context.Context) (ldapConn, error)
}

// NewLDAPVerifier creates a directory verifier. timeout bounds the identity
// store lookup, zero means DefaultResolveTimeout.
func NewLDAPVerifier(cfg config.LDAP, store identity.Store, timeout time.Duration) (*LDAPVerifier, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if cfg.Host == "" {
		return nil, ErrLDAPDisabled
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = defaultUserFilter
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLDAPTimeout
	}

	if cfg.Port == 0 {
		cfg.Port = 389
		if cfg.UseSSL {
			cfg.Port = 636
		}
	}

	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	v := &LDAPVerifier{cfg: cfg, store: store, timeout: timeout}
	v.dial = v.connect

	return v, nil
}

// Strategy implements CredentialVerifier.
func (v *LDAPVerifier) Strategy() string {
	return config.StrategyLDAP
}

// connect establishes a connection to the directory server.
func (v *LDAPVerifier) connect(ctx context.Context) (ldapConn, error) {
	hostPort := net.JoinHostPort(v.cfg.Host, strconv.Itoa(v.cfg.Port))

	ldapURL := "ldap://" + hostPort
	if v.cfg.UseSSL {
		ldapURL = "ldaps://" + hostPort
	}

	var tlsConfig *tls.Config
	if v.cfg.UseSSL || v.cfg.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: v.cfg.SkipVerify, //nolint:gosec // opt-in for test directories
			ServerName:         v.cfg.Host,
		}
	}

	timeout := v.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	conn, err := ldap.DialURL(ldapURL,
		ldap.DialWithTLSConfig(tlsConfig),
		ldap.DialWithDialer(&net.Dialer{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !v.cfg.UseSSL && v.cfg.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(timeout)

	return conn, nil
}

// Verify implements CredentialVerifier.
func (v *LDAPVerifier) Verify(ctx context.Context, email, password string) (Outcome, error) {
	// an empty password would be an unauthenticated bind, which directories accept
	if email == "" || password == "" {
		return rejected(ReasonInvalidCredentials), nil
	}

	if err := ctx.Err(); err != nil {
		return rejected(ReasonStoreUnavailable), unavailable(err)
	}

	conn, err := v.dial(ctx)
	if err != nil {
		return rejected(ReasonStoreUnavailable), unavailable(err)
	}

	// closing the connection aborts pending operations when ctx ends
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})

	defer func() {
		if stop() {
			if errClose := conn.Close(); errClose != nil {
				log.Warn().Err(errClose).Msg("failed to close LDAP connection")
			}
		}
	}()

	dn, reason, err := v.authenticate(conn, email, password)
	if ctx.Err() != nil {
		return rejected(ReasonStoreUnavailable), unavailable(ctx.Err())
	}

	if err != nil {
		return rejected(ReasonStoreUnavailable), unavailable(err)
	}

	if reason != "" {
		return rejected(reason), nil
	}

	users, err := findByEmail(ctx, v.store, email, v.timeout)
	if err != nil {
		if !errors.Is(err, identity.ErrUnavailable) {
			err = unavailable(err)
		}

		return rejected(ReasonStoreUnavailable), err
	}

	if len(users) == 0 {
		log.Info().Str("dn", dn).Msg("directory user has no identity record")
		return rejected(ReasonInvalidCredentials), nil
	}

	return authenticated(&users[0]), nil
}

// authenticate binds as the service account, finds the user entry and binds
// as the user. A non-empty reason is a rejection; err is a directory failure.
func (v *LDAPVerifier) authenticate(conn ldapConn, email, password string) (string, string, error) {
	if v.cfg.BindDN != "" {
		if err := conn.Bind(v.cfg.BindDN, v.cfg.BindPassword); err != nil {
			return "", "", fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	filter := strings.ReplaceAll(v.cfg.UserFilter, emailPlaceholder, ldap.EscapeFilter(email))
	searchRequest := ldap.NewSearchRequest(
		v.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		2, // one more than we accept, to detect duplicates
		int(v.cfg.Timeout.Seconds()),
		false,
		filter,
		[]string{"dn"},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
		return "", "", fmt.Errorf("failed to search for user: %w", err)
	}

	if result == nil || len(result.Entries) != 1 {
		return "", ReasonInvalidCredentials, nil
	}

	dn := result.Entries[0].DN

	if err = conn.Bind(dn, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return dn, ReasonInvalidCredentials, nil
		}

		return dn, "", fmt.Errorf("failed to bind as user: %w", err)
	}

	return dn, "", nil
}
