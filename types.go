package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Roles() []string
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// TokenService signs claims and verifies their cryptographic integrity.
// Business state (revocation, store expiry) is layered on by TokenLifecycle.
type TokenService interface {
	Sign(identity Identity, issuedAt, expiresAt time.Time) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Verify(tokenString string) (AuthClaims, error)
}

// TokenVerifier is the subset of TokenService the request interceptor needs.
type TokenVerifier interface {
	Verify(tokenString string) (AuthClaims, error)
}

// TokenStore is the persistence contract for issued tokens. Tokens is the
// Bun-backed implementation; the narrow interface keeps the lifecycle
// service testable against any durable keyed store.
type TokenStore interface {
	Save(ctx context.Context, record *Token) (*Token, error)
	GetByToken(ctx context.Context, tokenString string) (*Token, error)
	GetUserByToken(ctx context.Context, tokenString string) (*User, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*Token, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]*Token, error)
}

// TokenLifecycle orchestrates the token state machine: issuance, store-backed
// validation, revocation, and the expiry sweep.
type TokenLifecycle interface {
	Issue(ctx context.Context, identity Identity) (*Token, error)
	Validate(ctx context.Context, tokenString string) (*Token, error)
	Revoke(ctx context.Context, record *Token) error
	SweepExpired(ctx context.Context, asOf time.Time) ([]*Token, error)
	CurrentToken(ctx context.Context) (*Token, error)
	CurrentUser(ctx context.Context) (*User, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*Token, error)
	Logout(ctx context.Context) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetContextKey() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
