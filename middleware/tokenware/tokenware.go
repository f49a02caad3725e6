package tokenware

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

// GenericAuthMessage is the only text an authentication failure surfaces to
// the client; it never reveals which check failed.
const GenericAuthMessage = "Invalid or expired token"

var (
	// ErrCredentialMissing means no extractor found any credential material.
	ErrCredentialMissing = errors.New("no bearer credential in request")
	// ErrCredentialMalformed means credential material was present but unusable.
	ErrCredentialMalformed = errors.New("malformed bearer credential")
)

// Verifier checks the cryptographic integrity of a token and decodes its
// claims. It mirrors auth.TokenService.Verify without an import cycle.
type Verifier interface {
	Verify(tokenString string) (AuthClaims, error)
}

// Validator checks the store-backed business state of a token: issuance,
// revocation, expiry. It mirrors auth.TokenLifecycle.Validate.
type Validator interface {
	Validate(ctx context.Context, tokenString string) error
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(ctx context.Context, tokenString string) error

// Validate satisfies the Validator interface.
func (f ValidatorFunc) Validate(ctx context.Context, tokenString string) error {
	if f == nil {
		return ErrCredentialMalformed
	}
	return f(ctx, tokenString)
}

// AuthClaims mirrors the claims interface from the auth package so this
// middleware stays cycle-free.
type AuthClaims interface {
	Subject() string
	UserID() string
	Roles() []string
	HasRole(role string) bool
}

type Config struct {
	// Filter skips the middleware entirely when it returns true.
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	// ErrorHandler translates authentication failures to the wire. The
	// default responds 401 with GenericAuthMessage for the auth failure
	// family and 500 for anything else, such as an unreachable store.
	ErrorHandler router.ErrorHandler
	ContextKey   string
	TokenLookup  string
	AuthScheme   string

	// Verifier is required: cryptographic check, yields the claims.
	Verifier Verifier
	// Validator is required: store-backed check. A stolen but unexpired
	// signed token must still be rejectable by revocation, which the
	// signature alone cannot express.
	Validator Validator

	// RequiredRole, when set, must be present in the decoded claims.
	RequiredRole string

	// ContextEnricher propagates the raw token and claims to the standard
	// Go context after both checks pass.
	ContextEnricher func(c context.Context, tokenString string, claims AuthClaims) context.Context
}

// New builds the request filter. A request without any credential passes
// through unauthenticated so public endpoints stay reachable; a request with
// one must pass the signature check and the store check before a principal
// is attached.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawToken(ctx, cfg.getExtractors())
			if err != nil {
				if errors.Is(err, ErrCredentialMissing) {
					return ctx.Next()
				}
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.Verifier.Verify(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.Validator.Validate(ctx.Context(), raw); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if cfg.RequiredRole != "" && !claims.HasRole(cfg.RequiredRole) {
				return cfg.ErrorHandler(ctx, ErrCredentialMalformed)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				stdCtx := cfg.ContextEnricher(ctx.Context(), raw, claims)
				ctx.SetContext(stdCtx)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	if cfg.Verifier == nil {
		panic("AUTH: token middleware configuration: Verifier is required.")
	}

	if cfg.Validator == nil {
		panic("AUTH: token middleware configuration: Validator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// DefaultErrorHandler is the sole translator from authentication failures to
// the wire: the 401 body never distinguishes not-found from revoked from
// expired from malformed. Store faults fall outside the family and surface
// as a 500.
func DefaultErrorHandler(c router.Context, err error) error {
	if isAuthFailure(err) {
		return c.Status(router.StatusUnauthorized).SendString(GenericAuthMessage)
	}
	return c.Status(router.StatusInternalServerError).SendString("internal server error")
}

func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCredentialMalformed) {
		return true
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryAuth ||
			richErr.Category == goerrors.CategoryNotFound
	}

	return false
}

// ExtractRawToken runs the extractor chain. It reports ErrCredentialMissing
// only when no extractor saw any credential material at all.
func ExtractRawToken(ctx router.Context, extractors []TokenExtractor) (string, error) {
	sawCredential := false

	for _, extractor := range extractors {
		raw, err := extractor(ctx)
		if raw != "" && err == nil {
			return raw, nil
		}
		if err != nil && !errors.Is(err, ErrCredentialMissing) {
			sawCredential = true
		}
	}

	if sawCredential {
		return "", ErrCredentialMalformed
	}

	return "", ErrCredentialMissing
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a lookup expression such as
// "header:Authorization,cookie:jwt,query:auth_token" into extractor funcs.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

type TokenExtractor func(c router.Context) (string, error)

// tokenFromHeader returns a function that extracts the token from the
// request header. An absent header is a missing credential; a header that
// does not match the auth scheme is a malformed one.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		if a == "" {
			return "", ErrCredentialMissing
		}

		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 {
			return strings.TrimSpace(a), nil
		}

		if len(a) > l+1 && strings.EqualFold(a[:l], scheme) {
			return strings.TrimSpace(a[l:]), nil
		}

		return "", ErrCredentialMalformed
	}
}

// tokenFromQuery returns a function that extracts the token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrCredentialMissing
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts the token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrCredentialMissing
		}
		return token, nil
	}
}
