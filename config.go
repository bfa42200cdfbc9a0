package auth

import "time"

// AuthConfig is a concrete Config with sensible defaults
type AuthConfig struct {
	SigningKey      string
	Issuer          string
	Audience        []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
}

var _ Config = (*AuthConfig)(nil)

// NewConfig builds an AuthConfig around a signing key
func NewConfig(signingKey string) *AuthConfig {
	return &AuthConfig{
		SigningKey:      signingKey,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour * 7,
		ResetTokenTTL:   DefaultResetTokenTTL,
	}
}

func (c *AuthConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AuthConfig) GetIssuer() string {
	return c.Issuer
}

func (c *AuthConfig) GetAudience() []string {
	return c.Audience
}

func (c *AuthConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return time.Hour
	}
	return c.AccessTokenTTL
}

func (c *AuthConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return 24 * time.Hour * 7
	}
	return c.RefreshTokenTTL
}

func (c *AuthConfig) GetResetTokenTTL() time.Duration {
	if c.ResetTokenTTL <= 0 {
		return DefaultResetTokenTTL
	}
	return c.ResetTokenTTL
}
