package auth_test

import (
	"errors"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/teamchallenge/bookti-auth"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"password mismatch", auth.ErrPasswordMismatch, http.StatusBadRequest},
		{"reset token expired", auth.ErrResetTokenExpired, http.StatusBadRequest},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token expired", auth.ErrTokenExpired, http.StatusUnauthorized},
		{"token malformed", auth.ErrTokenMalformed, http.StatusUnauthorized},
		{"user already exists", auth.ErrUserAlreadyExists, http.StatusConflict},
		{"token revoked", auth.ErrTokenRevoked, http.StatusConflict},
		{"user not found", auth.ErrUserNotFound, http.StatusNotFound},
		{"reset token not found", auth.ErrResetTokenNotFound, http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, auth.HTTPStatusFromError(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := auth.NewErrorResponse(auth.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "invalid email or password", resp.Message)
	assert.Empty(t, resp.Errors)
}

func TestFormatValidationErrorToList(t *testing.T) {
	err := validation.Errors{
		"password": errors.New("cannot be blank"),
		"email":    errors.New("must be a valid email address"),
	}

	got := auth.FormatValidationErrorToList(err)

	assert.Equal(t, []string{
		"email: must be a valid email address",
		"password: cannot be blank",
	}, got)
}

func TestFormatValidationErrorToListPlainError(t *testing.T) {
	assert.Nil(t, auth.FormatValidationErrorToList(nil))
	assert.Equal(t, []string{"boom"}, auth.FormatValidationErrorToList(errors.New("boom")))
}
