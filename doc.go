// Package auth implements a bearer-token lifecycle for user-authentication
// backends: HMAC-signed JWT issuance, store-backed validation, revocation,
// and an HTTP filter that gates requests on both checks.
//
// Token lifecycle:
//   - TokenService signs and cryptographically verifies tokens. It is the
//     authority for claim integrity (user id, roles, issuer) and nothing else.
//   - Tokens persists every issued token keyed by its signed string and by
//     owning user, and is the authority for revocation and business expiry.
//   - LifecycleService combines both: Issue signs and persists, Validate
//     checks the stored record (not found, revoked, expired, in that order),
//     Revoke flips the monotonic revoked flag, SweepExpired reports records
//     past their window without deleting them.
//
// Request interception:
//   - middleware/tokenware extracts a bearer credential, verifies the
//     signature, validates store state, and attaches the principal to the
//     request context. Requests without a credential pass through so public
//     endpoints stay reachable; every authentication failure maps to a single
//     generic 401.
//
// The ambient token is carried as an explicit request-scoped context value
// (see WithTokenContext), never as process-global state.
package auth
