package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

type Auther struct {
	provider IdentityProvider
	store    IdentityStore
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator. The store is both the
// identity lookup collaborator and the place the refresh token reference
// is persisted for rotation.
func NewAuthenticator(store IdentityStore, cfg Config) (*Auther, error) {
	tokens, err := NewTokenService(cfg, nil)
	if err != nil {
		return nil, err
	}

	return &Auther{
		provider: NewUserProvider(store),
		store:    store,
		tokens:   tokens,
		logger:   defLogger{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithIdentityProvider sets a custom IdentityProvider for the Auther.
func (s *Auther) WithIdentityProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.provider = provider
	}
	return s
}

// WithTokenService sets a custom token service, mostly used by tests to
// control expiry.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies credentials and mints a fresh access/refresh pair. The
// refresh token reference is persisted on the user record, replacing the
// previous one so only the newest refresh token stays usable.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Info("Login verify identity error: %s", err)
		return nil, nil, err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return nil, nil, ErrMismatchedHashAndPassword
	}

	pair, err := s.issuePair(ctx, identity)
	if err != nil {
		return nil, nil, err
	}

	if tracker, ok := s.store.(interface {
		TrackSuccessfulLogin(ctx context.Context, id string) error
	}); ok {
		if err := tracker.TrackSuccessfulLogin(ctx, identity.ID()); err != nil {
			s.logger.Warn("failed to track login for %s: %s", identity.ID(), err)
		}
	}

	return pair, identity, nil
}

// Refresh validates a refresh token, checks it against the persisted
// rotation pointer, and rotates the session. A refresh token that was
// already rotated out, or cleared by logout, is rejected.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, Identity, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenKindRefresh)
	if err != nil {
		s.logger.Info("Refresh token validation error: %s", err)
		return nil, nil, err
	}

	user, err := requireUser(ctx, s.store, claims.UserID())
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			// subject deleted after issuance, token is dead
			return nil, nil, ErrTokenRevoked
		}
		return nil, nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.logger.Warn("Refresh token does not match rotation pointer for user %s", user.ID)
		return nil, nil, ErrTokenRevoked
	}

	identity := identityFromUser(user)

	pair, err := s.issuePair(ctx, identity)
	if err != nil {
		return nil, nil, err
	}

	return pair, identity, nil
}

// Logout clears the persisted refresh token reference so a captured
// refresh token cannot mint further access tokens.
func (s *Auther) Logout(ctx context.Context, identityID string) error {
	if err := s.store.UpdateRefreshToken(ctx, identityID, ""); err != nil {
		s.logger.Error("Logout failed to clear refresh token for %s: %s", identityID, err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear refresh token")
	}
	return nil
}

// SessionFromToken validates an access token and returns its session view
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokens.Validate(raw, TokenKindAccess)
	if err != nil {
		s.logger.Info("SessionFromToken validation error: %s", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken error creating session from claims: %s", err)
		return nil, err
	}

	return session, nil
}

func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, session.GetUserID())
	if err != nil {
		s.logger.Info("IdentityFromSession find identity error: %s", err)
		return nil, err
	}

	return identity, nil
}

func (s *Auther) issuePair(ctx context.Context, identity Identity) (*TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		s.logger.Error("failed to issue access token: %s", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue access token")
	}

	refresh, refreshExp, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		s.logger.Error("failed to issue refresh token: %s", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue refresh token")
	}

	// rotation: overwriting the pointer invalidates the previous refresh token
	if err := s.store.UpdateRefreshToken(ctx, identity.ID(), refresh); err != nil {
		s.logger.Error("failed to persist refresh token: %s", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist refresh token")
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

var _ Authenticator = (*Auther)(nil)
