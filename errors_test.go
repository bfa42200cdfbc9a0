package auth_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamchallenge/bookti-auth"
)

// The helpers match both the rich domain errors and plain errors carrying
// the jwt library's message strings, so callers can classify failures that
// crossed a boundary which flattened them to text.
func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"domain error", auth.ErrTokenExpired, true},
		{"wrapped domain error", fmt.Errorf("validate: %w", auth.ErrTokenExpired), true},
		{"plain message", errors.New("token is expired"), true},
		{"malformed token", auth.ErrTokenMalformed, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"domain error", auth.ErrTokenMalformed, true},
		{"wrapped domain error", fmt.Errorf("validate: %w", auth.ErrTokenMalformed), true},
		{"plain message", errors.New("token is malformed"), true},
		{"fiber jwt message", errors.New("missing or malformed JWT"), true},
		{"expired token", auth.ErrTokenExpired, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsMalformedError(tt.err))
		})
	}
}
