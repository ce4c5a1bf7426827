package auth_test

import (
	"context"
	"testing"
	"time"

	gconfig "github.com/goliatone/go-config/config"
	"github.com/souqworks/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleConfig_Defaults(t *testing.T) {
	cfg := &auth.SimpleConfig{SigningKey: "secret"}

	assert.Equal(t, "secret", cfg.GetSigningKey())
	assert.Equal(t, "HS256", cfg.GetSigningMethod())
	assert.Equal(t, "user", cfg.GetContextKey())
	assert.Equal(t, time.Hour, cfg.GetTokenExpiration())
	assert.Equal(t, 240*time.Hour, cfg.GetRefreshTokenExpiration())
	assert.Equal(t, "cookie:accessToken,header:Authorization", cfg.GetTokenLookup())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
	assert.Empty(t, cfg.GetIssuer())
	assert.Empty(t, cfg.GetAudience())
	assert.False(t, cfg.GetSecureCookies())
}

func TestSimpleConfig_Overrides(t *testing.T) {
	cfg := &auth.SimpleConfig{
		SigningKey:            "secret",
		SigningMethod:         "HS512",
		ContextKey:            "session",
		TokenExpirationExpr:   "15m",
		RefreshExpirationExpr: "72h",
		TokenLookup:           "header:Authorization",
		AuthScheme:            "Token",
		Issuer:                "souqworks",
		Audience:              []string{"api"},
		SecureCookies:         true,
	}

	assert.Equal(t, "HS512", cfg.GetSigningMethod())
	assert.Equal(t, "session", cfg.GetContextKey())
	assert.Equal(t, 15*time.Minute, cfg.GetTokenExpiration())
	assert.Equal(t, 72*time.Hour, cfg.GetRefreshTokenExpiration())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
	assert.Equal(t, "Token", cfg.GetAuthScheme())
	assert.Equal(t, "souqworks", cfg.GetIssuer())
	assert.Equal(t, []string{"api"}, cfg.GetAudience())
	assert.True(t, cfg.GetSecureCookies())
}

func TestSimpleConfig_DurationExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want time.Duration
	}{
		{"empty uses the default", "", time.Hour},
		{"minutes", "30m", 30 * time.Minute},
		{"compound", "1h30m", 90 * time.Minute},
		{"garbage falls back to the default", "soon", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &auth.SimpleConfig{SigningKey: "secret", TokenExpirationExpr: tt.expr}
			assert.Equal(t, tt.want, cfg.GetTokenExpiration())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("loads values from a provider", func(t *testing.T) {
		cfg, err := auth.LoadConfig(ctx, gconfig.WithLoader(
			gconfig.DefaultValues[*auth.SimpleConfig](map[string]any{
				"signing_key":      "secret",
				"signing_method":   "HS256",
				"issuer":           "souqworks",
				"token_expiration": "15m",
			}),
		))
		require.NoError(t, err)

		assert.Equal(t, "secret", cfg.GetSigningKey())
		assert.Equal(t, "souqworks", cfg.GetIssuer())
		assert.Equal(t, 15*time.Minute, cfg.GetTokenExpiration())
	})

	t.Run("missing signing key fails validation", func(t *testing.T) {
		cfg, err := auth.LoadConfig(ctx, gconfig.WithLoader(
			gconfig.DefaultValues[*auth.SimpleConfig](map[string]any{
				"issuer": "souqworks",
			}),
		))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "signing key is required")
	})
}

func TestSimpleConfig_Validate(t *testing.T) {
	t.Run("signing key is required", func(t *testing.T) {
		cfg := &auth.SimpleConfig{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid config passes", func(t *testing.T) {
		cfg := &auth.SimpleConfig{SigningKey: "secret"}
		assert.NoError(t, cfg.Validate())
	})
}
