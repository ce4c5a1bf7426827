package auth

import (
	"context"

	"github.com/souqworks/go-auth/middleware/tokenware"
)

// ValidationListener aliases the tokenware listener so consumers can use auth helpers directly.
type ValidationListener = tokenware.ValidationListener

// ContextEnricherAdapter adapts tokenware.AuthClaims to auth.AuthClaims and stores
// the claims in the standard context for downstream usage.
func ContextEnricherAdapter(c context.Context, claims tokenware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}

// RegisterValidationListeners appends listeners to a tokenware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *tokenware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
