package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// DefaultValidityWindow is the fixed lifetime of an issued token.
const DefaultValidityWindow = 24 * time.Hour

// LifecycleService drives the token state machine. A record moves from
// active to expired by clock alone and from active to revoked by an explicit
// write; both transitions are terminal for validation and a record can hold
// both. The store record is the authority here, the signature is checked
// separately by TokenService when claims need to be decoded.
type LifecycleService struct {
	store    TokenStore
	signer   TokenService
	validity time.Duration
	logger   Logger
	now      func() time.Time
}

var _ TokenLifecycle = (*LifecycleService)(nil)

// LifecycleOption configures a LifecycleService
type LifecycleOption func(*LifecycleService)

// WithValidityWindow overrides the fixed token lifetime.
func WithValidityWindow(d time.Duration) LifecycleOption {
	return func(s *LifecycleService) {
		if d > 0 {
			s.validity = d
		}
	}
}

// WithConfigValidity applies the deployment config's token expiration,
// expressed in hours, as the validity window.
func WithConfigValidity(cfg Config) LifecycleOption {
	return func(s *LifecycleService) {
		if cfg == nil {
			return
		}
		if hours := cfg.GetTokenExpiration(); hours > 0 {
			s.validity = time.Duration(hours) * time.Hour
		}
	}
}

// WithLifecycleLogger sets the logger.
func WithLifecycleLogger(l Logger) LifecycleOption {
	return func(s *LifecycleService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) LifecycleOption {
	return func(s *LifecycleService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLifecycleService creates the lifecycle service on top of a signer and a
// token store.
func NewLifecycleService(store TokenStore, signer TokenService, opts ...LifecycleOption) *LifecycleService {
	s := &LifecycleService{
		store:    store,
		signer:   signer,
		validity: DefaultValidityWindow,
		logger:   defLogger{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Issue signs a token for the identity with the fixed validity window and
// persists the record. Persistence failures propagate unrecovered.
func (s *LifecycleService) Issue(ctx context.Context, identity Identity) (*Token, error) {
	if identity == nil {
		return nil, goerrors.New("identity must not be nil", goerrors.CategoryBadInput)
	}

	userID, err := uuid.Parse(identity.ID())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "identity has no valid user id")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.validity)

	signed, err := s.signer.Sign(identity, issuedAt, expiresAt)
	if err != nil {
		s.logger.Error("Issue failed to sign token", "error", err, "user", identity.ID())
		return nil, err
	}

	record := &Token{
		Token:     signed,
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	record, err = s.store.Save(ctx, record)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token record")
	}

	s.logger.Info("Issued token", "user", identity.ID(), "expires_at", expiresAt)

	return record, nil
}

// Validate checks the stored record for a token string: unknown tokens fail
// with ErrTokenNotFound, then revocation, then expiry. The stored timestamps
// are trusted; no signature re-verification happens here.
func (s *LifecycleService) Validate(ctx context.Context, tokenString string) (*Token, error) {
	record, err := s.store.GetByToken(ctx, tokenString)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "token lookup failed")
	}

	if record.Revoked {
		return nil, ErrTokenRevoked
	}

	if record.Expired(s.now()) {
		return nil, ErrTokenExpired
	}

	return record, nil
}

// Revoke flips the record's revoked flag and persists it. Revoking an
// already revoked record is a no-op.
func (s *LifecycleService) Revoke(ctx context.Context, record *Token) error {
	if record == nil {
		return goerrors.New("record must not be nil", goerrors.CategoryBadInput)
	}

	if record.Revoked {
		return nil
	}

	record.Revoked = true

	if _, err := s.store.Save(ctx, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist revocation")
	}

	s.logger.Info("Revoked token", "user", record.UserID.String())

	return nil
}

// SweepExpired reports every record expired as of the given time. It is a
// reporting query: deletion or archival is left to the caller's retention
// policy.
func (s *LifecycleService) SweepExpired(ctx context.Context, asOf time.Time) ([]*Token, error) {
	records, err := s.store.ListExpired(ctx, asOf)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "expiry sweep failed")
	}

	return records, nil
}

// CurrentToken resolves the request-scoped ambient token to its stored
// record. A missing ambient token, or one the store no longer knows, is an
// authentication failure rather than a server fault: it most likely means
// the token was revoked or evicted since issuance.
func (s *LifecycleService) CurrentToken(ctx context.Context) (*Token, error) {
	raw, ok := TokenFromContext(ctx)
	if !ok {
		s.logger.Warn("No ambient token in request context")
		return nil, ErrUnauthenticated
	}

	record, err := s.store.GetByToken(ctx, raw)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Warn("Ambient token not found in store")
			return nil, ErrUnauthenticated
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "token lookup failed")
	}

	return record, nil
}

// CurrentUser resolves the request-scoped ambient token to its owning user.
func (s *LifecycleService) CurrentUser(ctx context.Context) (*User, error) {
	raw, ok := TokenFromContext(ctx)
	if !ok {
		s.logger.Warn("No ambient token in request context")
		return nil, ErrUnauthenticated
	}

	user, err := s.store.GetUserByToken(ctx, raw)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Warn("Ambient token not found in store")
			return nil, ErrUnauthenticated
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed")
	}

	return user, nil
}
