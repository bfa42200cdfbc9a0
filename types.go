package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Email() string
	DisplayName() string
	Role() string
}

// Authenticator holds the credential lifecycle operations
type Authenticator interface {
	Signup(ctx context.Context, req SignupRequest) (*TokenPair, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) (*ResetConfirmation, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*TokenPair, error)
}

// TokenService mints and validates access/refresh token pairs
type TokenService interface {
	GeneratePair(ctx context.Context, identity Identity) (*TokenPair, error)
	Validate(tokenString string) (AuthClaims, error)
	ValidateRefresh(ctx context.Context, tokenString string) (AuthClaims, error)
	Refresh(ctx context.Context, refreshToken string, resolve IdentityResolver) (*TokenPair, error)
}

// IdentityResolver maps a token subject back to a full identity
type IdentityResolver func(ctx context.Context, subject string) (Identity, error)

// RevocationLedger tracks refresh token ids that are no longer honorable,
// independent of signature validity. Revoke reports whether the jti was
// newly inserted; a false result means another caller revoked it first,
// which is what serializes concurrent rotations of the same token.
type RevocationLedger interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Mailer delivers a password reset token out of band. Delivery failure is
// reported to the caller's logger, never as an issuance failure.
type Mailer interface {
	SendPasswordReset(ctx context.Context, user *User, token string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetResetTokenTTL() time.Duration
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
