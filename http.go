package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/souqworks/go-auth/middleware/tokenware"
)

// Session cookie names. Both cookies are set together on login and
// rotation, and cleared together with matching attributes so browsers
// actually drop them.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	tokens       TokenService
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	if provider, ok := auther.(interface{ TokenService() TokenService }); ok {
		a.tokens = provider.TokenService()
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// ProtectedRoute gates routes behind a valid access token. The token is
// looked up per cfg.GetTokenLookup, validated for the access kind, and
// its subject resolved to a live identity before the handler runs. Any
// failure clears the session cookies and goes through errorHandler.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ErrorHandler: func(c router.Context, err error) error {
			a.ClearSessionCookies(c)
			return errorHandler(c, err)
		},
		SigningKey: tokenware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:          cfg.GetAuthScheme(),
		ContextKey:          cfg.GetContextKey(),
		TokenLookup:         cfg.GetTokenLookup(),
		TokenValidator:      a.tokenValidator(),
		ContextEnricher:     ContextEnricherAdapter,
		ValidationListeners: []tokenware.ValidationListener{a.resolveIdentity()},
	})
}

// tokenValidator adapts the token service when the Authenticator carries
// one; otherwise tokenware falls back to its key based validation.
func (a *RouteAuthenticator) tokenValidator() tokenware.TokenValidator {
	if a.tokens == nil {
		return nil
	}
	return accessTokenValidator{tokens: a.tokens}
}

type accessTokenValidator struct {
	tokens TokenService
}

func (v accessTokenValidator) Validate(raw string) (tokenware.AuthClaims, error) {
	return v.tokens.Validate(raw, TokenKindAccess)
}

// resolveIdentity rejects tokens whose subject no longer maps to a user,
// so a deleted account cannot keep using a still valid access token.
func (a *RouteAuthenticator) resolveIdentity() tokenware.ValidationListener {
	return func(ctx router.Context, claims tokenware.AuthClaims) error {
		session := &SessionObject{UserID: claims.UserID()}

		identity, err := a.auth.IdentityFromSession(ctx.Context(), session)
		if err != nil {
			a.Logger.Info("Gate could not resolve identity for %s: %s", claims.UserID(), err)
			return ErrIdentityNotFound
		}

		ctx.SetContext(WithIdentityContext(ctx.Context(), identity))
		return nil
	}
}

// Login verifies the payload credentials and installs the session cookie
// pair. The refresh token travels only in its cookie, never in a body.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (Identity, error) {
	pair, identity, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return nil, err
	}

	a.setSessionCookies(ctx, pair)
	return identity, nil
}

// Logout revokes the refresh token and clears the session cookies. The
// cookies are cleared even when the access token turned out stale.
func (a *RouteAuthenticator) Logout(ctx router.Context) error {
	defer a.ClearSessionCookies(ctx)

	raw := ctx.Cookies(AccessTokenCookie)
	if raw == "" {
		return nil
	}

	session, err := a.auth.SessionFromToken(raw)
	if err != nil {
		a.Logger.Info("Logout with stale access token: %s", err)
		return nil
	}

	return a.auth.Logout(ctx.Context(), session.GetUserID())
}

// Refresh rotates the session from the refresh token cookie. On any
// failure the cookies are cleared so the client falls back to login.
func (a *RouteAuthenticator) Refresh(ctx router.Context) (Identity, error) {
	raw := ctx.Cookies(RefreshTokenCookie)
	if raw == "" {
		a.ClearSessionCookies(ctx)
		return nil, errors.New("refresh token missing", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(TextCodeTokenMalformed)
	}

	pair, identity, err := a.auth.Refresh(ctx.Context(), raw)
	if err != nil {
		a.Logger.Info("Refresh error: %s", err)
		a.ClearSessionCookies(ctx)
		return nil, err
	}

	a.setSessionCookies(ctx, pair)
	return identity, nil
}

func (a *RouteAuthenticator) setSessionCookies(c router.Context, pair *TokenPair) {
	a.setCookie(c, AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt)
	a.setCookie(c, RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt)
}

// ClearSessionCookies expires both session cookies using the same
// attributes they were set with
func (a *RouteAuthenticator) ClearSessionCookies(c router.Context) {
	a.cookieDel(c, AccessTokenCookie)
	a.cookieDel(c, RefreshTokenCookie)
}

func (a *RouteAuthenticator) setCookie(c router.Context, name, val string, expires time.Time) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   a.cfg.GetSecureCookies(),
		SameSite: "Strict",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.cfg.GetSecureCookies(),
		SameSite: "Strict",
	})
}

// MakeClientRouteAuthErrorHandler normalizes gate failures into rich
// auth errors. With optional set, failures are logged and the request
// proceeds unauthenticated.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	return NewErrorSink().WithLogger(a.Logger).Handle(c, err)
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)
