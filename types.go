package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenKind discriminates access tokens from refresh tokens. A token of
// one kind is never accepted where the other is required.
type TokenKind string

const (
	// TokenKindAccess is the short lived per-request credential
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long lived credential used only to mint new access tokens
	TokenKindRefresh TokenKind = "refresh"
)

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetAudience() []string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
	GetData() map[string]any
}

// TokenPair bundles the credentials minted on login or rotation.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*TokenPair, Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, Identity, error)
	Logout(ctx context.Context, identityID string) error
	SessionFromToken(token string) (Session, error)
	IdentityFromSession(ctx context.Context, session Session) (Identity, error)
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// Middleware gates routes behind a valid access token
type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

type HTTPAuthenticator interface {
	Middleware
	Login(c router.Context, payload LoginPayload) (Identity, error)
	Logout(c router.Context) error
	Refresh(c router.Context) (Identity, error)
	MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetSecureCookies() bool
}

// TokenService mints and validates session tokens. Validate rejects a
// token whose embedded kind does not match the requested kind.
type TokenService interface {
	IssueAccessToken(identity Identity) (string, time.Time, error)
	IssueRefreshToken(identity Identity) (string, time.Time, error)
	Validate(token string, kind TokenKind) (AuthClaims, error)
}

// IdentityProvider ensure we have a store to verify and retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// IdentityStore is the collaborator contract to the backing document
// store. Implementations own per-record atomicity; duplicate emails are
// expected to be rejected by a store level uniqueness constraint.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateRefreshToken(ctx context.Context, id string, token string) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
