package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type claim values. Refresh tokens are never accepted where an
// access token is expected, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthClaims represents structured JWT claims with permission checking
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	TokenID() string
	TokenUse() string
	CanRead() bool
	CanEdit() bool
	CanCreate() bool
	CanDelete() bool
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	UserRole  string `json:"role,omitempty"`
	TokenType string `json:"token_use,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the global role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// TokenID returns the unique token id (jti)
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// TokenUse reports whether this is an access or refresh token
func (c *JWTClaims) TokenUse() string {
	return c.TokenType
}

// CanRead checks if the user can read resources
func (c *JWTClaims) CanRead() bool {
	return UserRole(c.UserRole).CanRead()
}

// CanEdit checks if the user can edit resources
func (c *JWTClaims) CanEdit() bool {
	return UserRole(c.UserRole).CanEdit()
}

// CanCreate checks if the user can create resources
func (c *JWTClaims) CanCreate() bool {
	return UserRole(c.UserRole).CanCreate()
}

// CanDelete checks if the user can delete resources
func (c *JWTClaims) CanDelete() bool {
	return UserRole(c.UserRole).CanDelete()
}

// HasRole checks if the user has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return UserRole(c.UserRole).IsAtLeast(UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ensureTokenID assigns a fresh jti when the claims carry none
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = newTokenID()
	}
}
