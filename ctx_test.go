package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetClaims(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOK   bool
	}{
		{
			name: "should return claims when present in context",
			setupCtx: func() context.Context {
				claims := &JWTClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject: "user123",
					},
					UID:       "user123",
					UserRoles: []string{RoleAdmin},
				}
				return WithClaimsContext(context.Background(), claims)
			},
			wantOK: true,
		},
		{
			name: "should return false when no claims in context",
			setupCtx: func() context.Context {
				return context.Background()
			},
			wantOK: false,
		},
		{
			name: "should return false when context has wrong type",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), claimsCtxKey, "not-a-claims-object")
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx()
			gotClaims, gotOK := GetClaims(ctx)

			assert.Equal(t, tt.wantOK, gotOK)
			if tt.wantOK {
				assert.NotNil(t, gotClaims)
				assert.Equal(t, "user123", gotClaims.Subject())
				assert.Equal(t, "user123", gotClaims.UserID())
				assert.True(t, gotClaims.HasRole(RoleAdmin))
			} else {
				assert.Nil(t, gotClaims)
			}
		})
	}
}

func TestTokenFromContext(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantToken string
		wantOK    bool
	}{
		{
			name: "should return the ambient token",
			setupCtx: func() context.Context {
				return WithTokenContext(context.Background(), "signed-token")
			},
			wantToken: "signed-token",
			wantOK:    true,
		},
		{
			name: "should return false when no token in context",
			setupCtx: func() context.Context {
				return context.Background()
			},
			wantOK: false,
		},
		{
			name: "should return false for an empty token value",
			setupCtx: func() context.Context {
				return WithTokenContext(context.Background(), "")
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TokenFromContext(tt.setupCtx())
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, got)
		})
	}
}

func TestTokenContextIsRequestScoped(t *testing.T) {
	// two requests carry independent ambient tokens, and deriving a child
	// context never mutates the parent
	parent := context.Background()
	reqA := WithTokenContext(parent, "token-a")
	reqB := WithTokenContext(parent, "token-b")

	gotA, okA := TokenFromContext(reqA)
	gotB, okB := TokenFromContext(reqB)

	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, "token-a", gotA)
	assert.Equal(t, "token-b", gotB)

	_, ok := TokenFromContext(parent)
	assert.False(t, ok)
}

func TestUserContext(t *testing.T) {
	user := &User{
		ID:       uuid.New(),
		Username: "ledger",
		Email:    "ledger@example.com",
		Roles:    []string{RoleUser},
	}

	ctx := WithContext(context.Background(), user)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestHasRoleFromContext(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user123",
		},
		UID:       "user123",
		UserRoles: []string{RoleUser},
	}

	ctx := WithClaimsContext(context.Background(), claims)

	assert.True(t, HasRole(ctx, RoleUser))
	assert.False(t, HasRole(ctx, RoleAdmin))
	assert.False(t, HasRole(context.Background(), RoleUser))
}
