package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teamchallenge/bookti-auth"
)

// testIdentity implements auth.Identity
type testIdentity struct {
	id    string
	email string
	name  string
	role  string
}

func (i testIdentity) ID() string          { return i.id }
func (i testIdentity) Email() string       { return i.email }
func (i testIdentity) DisplayName() string { return i.name }
func (i testIdentity) Role() string        { return i.role }

// MockMailer implements auth.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, user *auth.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// textCode extracts the taxonomy code from a rich error
func textCode(t *testing.T, err error) string {
	t.Helper()

	var richErr *goerrors.Error
	require.Error(t, err)
	require.True(t, goerrors.As(err, &richErr), "expected a rich error, got %v", err)

	return richErr.TextCode
}
