package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
)

// UserTracker is a store we can use to retrieve users
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximum number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = 24 * time.Hour

// UserProvider verifies credentials against the users store and tracks
// login attempts. It is the IdentityProvider used for credential exchange.
type UserProvider struct {
	store  UserTracker
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity checks the password for the user behind the identifier and
// records the attempt either way.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if err := u.ensureNotCoolingDown(user); err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := u.store.TrackAttemptedLogin(ctx, user); trackErr != nil {
			u.logger.Warn("VerifyIdentity failed to track attempted login", "error", trackErr)
		}
		return nil, err
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Warn("VerifyIdentity failed to track successful login", "error", err)
	}

	return IdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without password verification.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return IdentityFromUser(user), nil
}

func (u *UserProvider) ensureNotCoolingDown(user *User) error {
	if user.LoginAttempts < MaxLoginAttempts {
		return nil
	}

	if user.LoginAttemptAt == nil {
		return nil
	}

	if time.Since(*user.LoginAttemptAt) < CoolDownPeriod {
		return ErrTooManyLoginAttempts
	}

	return nil
}
