package auth

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// EnvConfig loads auth options from the environment. The signing key and
// issuer are deployment configuration; rotating the key invalidates every
// previously issued token since there is no key versioning.
type EnvConfig struct {
	SigningKey      string `env:"AUTH_SIGNING_KEY,required"`
	Issuer          string `env:"AUTH_TOKEN_ISSUER,required"`
	TokenExpiration int    `env:"AUTH_TOKEN_EXPIRATION" envDefault:"24"`
	TokenLookup     string `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string `env:"AUTH_SCHEME" envDefault:"Bearer"`
	ContextKey      string `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads the environment, layering an optional .env file under it.
func LoadConfig() (*EnvConfig, error) {
	// best effort, the file is optional
	_ = godotenv.Load()

	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse auth config from environment")
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

// GetTokenExpiration returns the validity window in hours.
func (c *EnvConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *EnvConfig) GetTokenLookup() string {
	return c.TokenLookup
}

func (c *EnvConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *EnvConfig) GetContextKey() string {
	return c.ContextKey
}
