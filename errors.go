package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCreds identifies credential mismatch failures.
	TextCodeInvalidCreds = "auth_invalid_credentials"
	// TextCodeTokenMalformed identifies cryptographic verification failures.
	TextCodeTokenMalformed = "auth_token_malformed"
	// TextCodeTokenNotFound identifies tokens unknown to the store.
	TextCodeTokenNotFound = "auth_token_not_found"
	// TextCodeTokenRevoked identifies revoked tokens.
	TextCodeTokenRevoked = "auth_token_revoked"
	// TextCodeTokenExpired identifies tokens past their validity window.
	TextCodeTokenExpired = "auth_token_expired"
	// TextCodeUnauthenticated identifies requests with no ambient token.
	TextCodeUnauthenticated = "auth_unauthenticated"
	// TextCodeIdentityNotFound identifies unknown identities.
	TextCodeIdentityNotFound = "auth_identity_not_found"
	// TextCodeTooManyAttempts identifies accounts in the login cool down.
	TextCodeTooManyAttempts = "auth_too_many_attempts"
)

// ErrTokenMalformed is returned when a token fails cryptographic
// verification: malformed input, signature mismatch, issuer mismatch, or a
// structurally invalid encoding. The kinds are deliberately collapsed into
// one error so callers cannot leak which check failed.
var ErrTokenMalformed = errors.New("missing or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenNotFound is returned when a token string is unknown to the store.
// This is a business-level miss, distinct from ErrTokenMalformed.
var ErrTokenNotFound = errors.New("token not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTokenNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned when the stored record has been revoked.
var ErrTokenRevoked = errors.New("token has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the stored record is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when no ambient token exists in the request
// context, or when an ambient token can no longer be resolved in the store.
var ErrUnauthenticated = errors.New("request is not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned when password verification fails.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when a required value is empty.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrTooManyLoginAttempts is returned while an account is cooling down after
// repeated failed logins.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// IsAuthError reports whether err belongs to the authentication failure
// family (malformed, not found, revoked, expired, unauthenticated, bad
// credentials). The request interceptor uses it to decide between a generic
// 401 and a 5xx; store faults are not part of the family.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryAuth ||
			richErr.Category == errors.CategoryNotFound
	}

	return IsTokenExpiredError(err) || IsMalformedError(err)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed token")
}
