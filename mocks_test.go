package auth_test

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-tokenauth"
)

// MockUserTracker mocks the user store behind UserProvider.
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	if user, ok := args.Get(0).(*auth.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityProvider mocks credential verification.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenLifecycle mocks the token state machine.
type MockTokenLifecycle struct {
	mock.Mock
}

func (m *MockTokenLifecycle) Issue(ctx context.Context, identity auth.Identity) (*auth.Token, error) {
	args := m.Called(ctx, identity)
	if record, ok := args.Get(0).(*auth.Token); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenLifecycle) Validate(ctx context.Context, tokenString string) (*auth.Token, error) {
	args := m.Called(ctx, tokenString)
	if record, ok := args.Get(0).(*auth.Token); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenLifecycle) Revoke(ctx context.Context, record *auth.Token) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTokenLifecycle) SweepExpired(ctx context.Context, asOf time.Time) ([]*auth.Token, error) {
	args := m.Called(ctx, asOf)
	if records, ok := args.Get(0).([]*auth.Token); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenLifecycle) CurrentToken(ctx context.Context) (*auth.Token, error) {
	args := m.Called(ctx)
	if record, ok := args.Get(0).(*auth.Token); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenLifecycle) CurrentUser(ctx context.Context) (*auth.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*auth.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
