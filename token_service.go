package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	ledger     RevocationLedger
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, ledger RevocationLedger, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  cfg.GetAccessTokenTTL(),
		refreshTTL: cfg.GetRefreshTokenTTL(),
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		ledger:     ledger,
		logger:     logger,
	}
}

// GeneratePair mints an access/refresh token pair for the identity. The
// refresh token carries a fresh jti so it can be revoked independently of
// signature validity.
func (ts *TokenServiceImpl) GeneratePair(ctx context.Context, identity Identity) (*TokenPair, error) {
	if identity == nil {
		return nil, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	now := time.Now()

	accessExpires := now.Add(ts.accessTTL)
	access, err := ts.SignClaims(ts.newClaims(identity, TokenTypeAccess, now, accessExpires))
	if err != nil {
		return nil, err
	}

	refreshExpires := now.Add(ts.refreshTTL)
	refresh, err := ts.SignClaims(ts.newClaims(identity, TokenTypeRefresh, now, refreshExpires))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpires,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}

// ValidateRefresh validates a refresh token. Signature and expiry are
// checked before the revocation ledger: an expired token reports expiry
// even if its jti also sits in the ledger.
func (ts *TokenServiceImpl) ValidateRefresh(ctx context.Context, tokenString string) (AuthClaims, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenUse() != TokenTypeRefresh {
		return nil, ErrTokenMalformed
	}

	if claims.TokenID() == "" {
		return nil, ErrTokenMalformed
	}

	revoked, err := ts.ledger.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token revocation status")
	}

	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh rotates a token pair. The presented refresh token is revoked
// before the replacement pair is minted, and the ledger insert is the
// serialization point: of any set of concurrent uses of the same token,
// exactly one wins the insert and mints a pair, the rest fail with
// ErrTokenRevoked.
func (ts *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string, resolve IdentityResolver) (*TokenPair, error) {
	claims, err := ts.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	identity, err := resolve(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}

	fresh, err := ts.ledger.Revoke(ctx, claims.TokenID(), claims.Expires())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke rotated refresh token")
	}

	if !fresh {
		return nil, ErrTokenRevoked
	}

	return ts.GeneratePair(ctx, identity)
}

func (ts *TokenServiceImpl) newClaims(identity Identity, tokenType string, issuedAt, expiresAt time.Time) *JWTClaims {
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
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID(),
		UserRole:  identity.Role(),
		TokenType: tokenType,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func newTokenID() string {
	return uuid.New().String()
}
