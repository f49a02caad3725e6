package auth

import (
	"context"
	"reflect"
)

// Auther implements the credential exchange flow: verified credentials go in,
// a persisted token record comes out.
type Auther struct {
	provider  IdentityProvider
	lifecycle TokenLifecycle
	logger    Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, lifecycle TokenLifecycle) *Auther {
	return &Auther{
		provider:  provider,
		lifecycle: lifecycle,
		logger:    defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Lifecycle returns the TokenLifecycle used by this Authenticator
func (s *Auther) Lifecycle() TokenLifecycle {
	return s.lifecycle
}

// Login verifies the credentials and issues a persisted token for the
// identity. The returned record carries the signed token string handed to
// the client.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*Token, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrIdentityNotFound
	}

	record, err := s.lifecycle.Issue(ctx, identity)
	if err != nil {
		s.logger.Error("Login failed to issue token", "error", err, "user", identity.ID())
		return nil, err
	}

	return record, nil
}

// Logout revokes the ambient token for the current request, if any.
func (s *Auther) Logout(ctx context.Context) error {
	record, err := s.lifecycle.CurrentToken(ctx)
	if err != nil {
		return err
	}

	return s.lifecycle.Revoke(ctx, record)
}
