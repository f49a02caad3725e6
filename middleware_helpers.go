package auth

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-tokenauth/middleware/tokenware"
)

// ContextEnricherAdapter stores the raw token and decoded claims in the
// standard context so downstream code can resolve the ambient principal via
// TokenLifecycle.CurrentToken and friends.
func ContextEnricherAdapter(c context.Context, tokenString string, claims tokenware.AuthClaims) context.Context {
	c = WithTokenContext(c, tokenString)

	if authClaims, ok := claims.(AuthClaims); ok {
		c = WithClaimsContext(c, authClaims)
	}

	return c
}

// ProtectedRoute builds the request filter from the deployment config, the
// signer, and the lifecycle service. Failing requests get the generic 401;
// passing requests carry the principal in both router locals and the
// standard context.
func ProtectedRoute(cfg Config, signer TokenService, lifecycle TokenLifecycle) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		Verifier:    verifierAdapter{signer},
		Validator: tokenware.ValidatorFunc(func(ctx context.Context, tokenString string) error {
			_, err := lifecycle.Validate(ctx, tokenString)
			return err
		}),
		ContextEnricher: ContextEnricherAdapter,
	})
}

// AdminRoute is ProtectedRoute plus a role requirement on the decoded claims.
func AdminRoute(cfg Config, signer TokenService, lifecycle TokenLifecycle) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		Verifier:    verifierAdapter{signer},
		Validator: tokenware.ValidatorFunc(func(ctx context.Context, tokenString string) error {
			_, err := lifecycle.Validate(ctx, tokenString)
			return err
		}),
		RequiredRole:    RoleAdmin,
		ContextEnricher: ContextEnricherAdapter,
	})
}

// verifierAdapter narrows TokenService to the middleware's Verifier without
// an import cycle.
type verifierAdapter struct {
	signer TokenService
}

func (v verifierAdapter) Verify(tokenString string) (tokenware.AuthClaims, error) {
	claims, err := v.signer.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
