package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-tokenauth"
)

type testIdentity struct {
	id    string
	name  string
	email string
	roles []string
}

func (t testIdentity) ID() string       { return t.id }
func (t testIdentity) Username() string { return t.name }
func (t testIdentity) Email() string    { return t.email }
func (t testIdentity) Roles() []string  { return t.roles }

func newTestIdentity(roles ...string) testIdentity {
	return testIdentity{
		id:    uuid.New().String(),
		name:  "tuser",
		email: "tuser@example.com",
		roles: roles,
	}
}

func TestTokenService_SignVerifyRoundTrip(t *testing.T) {
	service := auth.NewTokenService([]byte("test-signing-key"), "test-issuer", nil)

	identity := newTestIdentity("USER", "ADMIN")
	now := time.Now().Truncate(time.Second)
	expires := now.Add(24 * time.Hour)

	signed, err := service.Sign(identity, now, expires)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := service.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, identity.ID(), claims.UserID())
	assert.Equal(t, identity.ID(), claims.Subject())
	assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles())
	assert.Equal(t, "test-issuer", claims.Issuer())
	assert.True(t, claims.IssuedAt().Equal(now))
	assert.True(t, claims.Expires().Equal(expires))
}

func TestTokenService_SignMintsUniqueTokens(t *testing.T) {
	// claim timestamps have second precision, so two signatures for the same
	// identity and window only differ through the jti claim
	service := auth.NewTokenService([]byte("test-signing-key"), "test-issuer", nil)

	identity := newTestIdentity("USER")
	now := time.Now().Truncate(time.Second)

	first, err := service.Sign(identity, now, now.Add(time.Hour))
	require.NoError(t, err)

	second, err := service.Sign(identity, now, now.Add(time.Hour))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	claims, err := service.Verify(first)
	require.NoError(t, err)

	jwtClaims, ok := claims.(*auth.JWTClaims)
	require.True(t, ok)
	assert.NotEmpty(t, jwtClaims.RegisteredClaims.ID)
}

func TestTokenService_VerifyFailures(t *testing.T) {
	service := auth.NewTokenService([]byte("test-signing-key"), "test-issuer", nil)

	identity := newTestIdentity("USER")
	now := time.Now()
	signed, err := service.Sign(identity, now, now.Add(time.Hour))
	require.NoError(t, err)

	t.Run("tampered token never verifies", func(t *testing.T) {
		// flip the last character of the signature segment
		last := "a"
		if strings.HasSuffix(signed, "a") {
			last = "b"
		}
		tampered := signed[:len(signed)-1] + last

		claims, err := service.Verify(tampered)
		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("garbage input", func(t *testing.T) {
		claims, err := service.Verify("garbage")
		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("empty input", func(t *testing.T) {
		claims, err := service.Verify("")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := auth.NewTokenService([]byte("other-key"), "test-issuer", nil)
		claims, err := other.Verify(signed)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		other := auth.NewTokenService([]byte("test-signing-key"), "other-issuer", nil)
		claims, err := other.Verify(signed)
		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": identity.ID(),
			"iss": "test-issuer",
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := service.Verify(unsigned)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestTokenService_VerifyIgnoresExpiry(t *testing.T) {
	// the stored record, not the signature, is the authority for expiry
	service := auth.NewTokenService([]byte("test-signing-key"), "test-issuer", nil)

	identity := newTestIdentity("USER")
	issued := time.Now().Add(-48 * time.Hour)
	signed, err := service.Sign(identity, issued, issued.Add(time.Hour))
	require.NoError(t, err)

	claims, err := service.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, identity.ID(), claims.UserID())
}

func TestTokenService_SignNilIdentity(t *testing.T) {
	service := auth.NewTokenService([]byte("test-signing-key"), "test-issuer", nil)

	signed, err := service.Sign(nil, time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
	assert.Empty(t, signed)
}
