package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodePasswordMismatch   = "PASSWORD_MISMATCH"
	TextCodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenRevoked       = "TOKEN_REVOKED"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeResetTokenNotFound = "RESET_TOKEN_NOT_FOUND"
	TextCodeResetTokenExpired  = "RESET_TOKEN_EXPIRED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// The closed set of domain errors. Operations return these unmodified so the
// HTTP boundary can map each kind to a fixed status code.
var (
	// ErrPasswordMismatch is returned when password and confirmation differ
	ErrPasswordMismatch = goerrors.New("password does not match confirmation", goerrors.CategoryValidation).
				WithTextCode(TextCodePasswordMismatch)

	// ErrUserAlreadyExists is returned when the signup email is taken
	ErrUserAlreadyExists = goerrors.New("user with this email already exists", goerrors.CategoryConflict).
				WithTextCode(TextCodeUserAlreadyExists)

	// ErrInvalidCredentials covers both unknown email and wrong password
	ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
				WithTextCode(TextCodeInvalidCredentials)

	// ErrTokenExpired is returned for tokens past their expiry
	ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
			WithTextCode(TextCodeTokenExpired)

	// ErrTokenMalformed is returned for undecodable or badly signed tokens
	ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
			WithTextCode(TextCodeTokenMalformed)

	// ErrTokenRevoked is returned when a refresh token id is in the ledger
	ErrTokenRevoked = goerrors.New("refresh token has been revoked", goerrors.CategoryConflict).
			WithTextCode(TextCodeTokenRevoked)

	// ErrUserNotFound is returned for lookups of absent users
	ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
			WithTextCode(TextCodeUserNotFound)

	// ErrResetTokenNotFound covers absent, consumed, and superseded tokens
	ErrResetTokenNotFound = goerrors.New("password reset token not found", goerrors.CategoryNotFound).
				WithTextCode(TextCodeResetTokenNotFound)

	// ErrResetTokenExpired is returned when a reset token is past its window
	ErrResetTokenExpired = goerrors.New("password reset token has expired", goerrors.CategoryValidation).
				WithTextCode(TextCodeResetTokenExpired)

	// ErrNoEmptyString rejects empty passwords before hashing
	ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
				WithTextCode(TextCodeEmptyPassword)

	// ErrMismatchedHashAndPassword is the hasher's verification failure
	ErrMismatchedHashAndPassword = goerrors.New("password does not match hash", goerrors.CategoryAuth).
					WithTextCode(TextCodeInvalidCredentials)
)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
