package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	audience          jwt.ClaimStrings
	logger            Logger
}

// NewTokenService creates a new TokenService instance. The signing key is
// process wide configuration injected at construction, it is read only
// afterwards and safe for concurrent use.
func NewTokenService(cfg Config, logger Logger) (*TokenServiceImpl, error) {
	if logger == nil {
		logger = defLogger{}
	}

	key := cfg.GetSigningKey()
	if key == "" {
		return nil, errors.New("token service requires a signing key", errors.CategoryBadInput)
	}

	accessExp := cfg.GetTokenExpiration()
	if accessExp <= 0 {
		accessExp = time.Hour
	}

	refreshExp := cfg.GetRefreshTokenExpiration()
	if refreshExp <= 0 {
		refreshExp = 24 * time.Hour * 10
	}

	return &TokenServiceImpl{
		signingKey:        []byte(key),
		accessExpiration:  accessExp,
		refreshExpiration: refreshExp,
		issuer:            cfg.GetIssuer(),
		audience:          cfg.GetAudience(),
		logger:            logger,
	}, nil
}

// IssueAccessToken mints a short lived access token for the identity
func (ts *TokenServiceImpl) IssueAccessToken(identity Identity) (string, time.Time, error) {
	return ts.issue(identity, TokenKindAccess, ts.accessExpiration)
}

// IssueRefreshToken mints a refresh token used solely to rotate sessions
func (ts *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, time.Time, error) {
	return ts.issue(identity, TokenKindRefresh, ts.refreshExpiration)
}

func (ts *TokenServiceImpl) issue(identity Identity, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, errors.New("identity is required", errors.CategoryBadInput)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID(),
		UserEmail: identity.Email(),
		TokenKind: kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured
// claims. Signature and expiry checks are independent: an unexpired token
// with a bad signature fails with ErrTokenMalformed, a well signed token
// past its expiry fails with ErrTokenExpired. A token whose kind claim
// does not match the requested kind is rejected even when otherwise valid.
func (ts *TokenServiceImpl) Validate(tokenString string, kind TokenKind) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrUnableToDecodeSession
	}

	if claims.TokenKind != kind {
		ts.logger.Warn("TokenService validate rejected %s token where %s was required", claims.TokenKind, kind)
		return nil, ErrTokenWrongKind
	}

	return claims, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
