package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-tokenauth"
)

func TestAuthenticatorLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful login", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		userID := uuid.New()
		identity := auth.IdentityFromUser(&auth.User{
			ID:       userID,
			Username: "testuser",
			Email:    "test@example.com",
			Roles:    []string{auth.RoleUser},
		})

		record := &auth.Token{
			ID:        uuid.New(),
			Token:     "signed-token",
			UserID:    userID,
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}

		provider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(identity, nil).Once()
		lifecycle.On("Issue", ctx, identity).Return(record, nil).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		got, err := authenticator.Login(ctx, "test@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, record, got)
		assert.Equal(t, "signed-token", got.Token)

		provider.AssertExpectations(t)
		lifecycle.AssertExpectations(t)
	})

	t.Run("Verification failure propagates", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		provider.On("VerifyIdentity", ctx, "test@example.com", "wrong_password").
			Return(nil, auth.ErrMismatchedHashAndPassword).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		got, err := authenticator.Login(ctx, "test@example.com", "wrong_password")

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, auth.ErrMismatchedHashAndPassword, err)

		provider.AssertExpectations(t)
		lifecycle.AssertNotCalled(t, "Issue", ctx, nil)
	})

	t.Run("Nil identity", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		provider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(nil, nil).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		got, err := authenticator.Login(ctx, "test@example.com", "password123")

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, auth.ErrIdentityNotFound, err)

		provider.AssertExpectations(t)
	})

	t.Run("Issuance failure propagates", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		identity := auth.IdentityFromUser(&auth.User{
			ID:       uuid.New(),
			Username: "testuser",
			Email:    "test@example.com",
		})

		provider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(identity, nil).Once()
		lifecycle.On("Issue", ctx, identity).
			Return(nil, assert.AnError).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		got, err := authenticator.Login(ctx, "test@example.com", "password123")

		assert.Error(t, err)
		assert.Nil(t, got)

		provider.AssertExpectations(t)
		lifecycle.AssertExpectations(t)
	})
}

func TestAuthenticatorLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("Revokes the ambient token", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		record := &auth.Token{
			ID:     uuid.New(),
			Token:  "signed-token",
			UserID: uuid.New(),
		}

		lifecycle.On("CurrentToken", ctx).Return(record, nil).Once()
		lifecycle.On("Revoke", ctx, record).Return(nil).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		err := authenticator.Logout(ctx)

		require.NoError(t, err)
		lifecycle.AssertExpectations(t)
	})

	t.Run("No ambient token", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		lifecycle := new(MockTokenLifecycle)

		lifecycle.On("CurrentToken", ctx).Return(nil, auth.ErrUnauthenticated).Once()

		authenticator := auth.NewAuthenticator(provider, lifecycle)

		err := authenticator.Logout(ctx)

		assert.Error(t, err)
		assert.Equal(t, auth.ErrUnauthenticated, err)

		lifecycle.AssertExpectations(t)
		lifecycle.AssertNotCalled(t, "Revoke", ctx, nil)
	})
}
