package auth

import (
	"context"
	"time"

	gconfig "github.com/goliatone/go-config/config"
	goerrors "github.com/goliatone/go-errors"
)

// SimpleConfig is a file/env driven Config implementation. Duration
// fields are expressions parsed on access, e.g. "1h" or "240h".
type SimpleConfig struct {
	SigningKey            string   `json:"signing_key" koanf:"signing_key"`
	SigningMethod         string   `json:"signing_method" koanf:"signing_method"`
	ContextKey            string   `json:"context_key" koanf:"context_key"`
	TokenExpirationExpr   string   `json:"token_expiration" koanf:"token_expiration"`
	RefreshExpirationExpr string   `json:"refresh_token_expiration" koanf:"refresh_token_expiration"`
	TokenLookup           string   `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme            string   `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer                string   `json:"issuer" koanf:"issuer"`
	Audience              []string `json:"audience" koanf:"audience"`
	SecureCookies         bool     `json:"secure_cookies" koanf:"secure_cookies"`
}

// Validate fails fast on a configuration the token service would reject
// at request time anyway.
func (c *SimpleConfig) Validate() error {
	if c.SigningKey == "" {
		return goerrors.New("signing key is required", goerrors.CategoryValidation).
			WithTextCode("CONFIG_MISSING_SIGNING_KEY")
	}
	return nil
}

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetTokenExpiration() time.Duration {
	return parseDurationExpr(c.TokenExpirationExpr, time.Hour)
}

func (c *SimpleConfig) GetRefreshTokenExpiration() time.Duration {
	return parseDurationExpr(c.RefreshExpirationExpr, 240*time.Hour)
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "cookie:" + AccessTokenCookie + ",header:Authorization"
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c *SimpleConfig) GetAudience() []string {
	return c.Audience
}

func (c *SimpleConfig) GetSecureCookies() bool {
	return c.SecureCookies
}

func parseDurationExpr(expr string, def time.Duration) time.Duration {
	if expr == "" {
		return def
	}
	dur, err := time.ParseDuration(expr)
	if err != nil {
		return def
	}
	return dur
}

// LoadConfig loads the auth configuration from the application's config
// sources and validates it. Callers can override the default file source
// with go-config options, e.g. gconfig.WithLoader.
func LoadConfig(ctx context.Context, opts ...gconfig.Option[*SimpleConfig]) (*SimpleConfig, error) {
	container, err := gconfig.New(&SimpleConfig{}, opts...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to build auth configuration container")
	}

	if err := container.Load(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to load auth configuration")
	}

	cfg := container.Raw()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var _ Config = (*SimpleConfig)(nil)
