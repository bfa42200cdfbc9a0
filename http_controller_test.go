package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamchallenge/bookti-auth"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	repo := setupTestRepo(t)
	auther := auth.NewAuthenticator(repo, auth.NewConfig("test-signing-key")).
		WithLogger(testLogger{})

	app := fiber.New()
	auth.RegisterAuthRoutes(app, auth.NewAuthController(
		auther,
		auth.WithControllerLogger(testLogger{}),
	))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestSignupEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/authorize/signup", map[string]any{
		"email":            "signup@example.com",
		"password":         "SuperSecret1",
		"confirm_password": "SuperSecret1",
		"display_name":     "Test User",
	})

	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
}

func TestSignupEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/authorize/signup", map[string]any{
		"email":            "not-an-email",
		"password":         "short",
		"confirm_password": "different",
		"display_name":     "",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation failed", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestRefreshEndpoint(t *testing.T) {
	app := newTestApp(t)

	_, signup := postJSON(t, app, "/authorize/signup", map[string]any{
		"email":            "refresh@example.com",
		"password":         "SuperSecret1",
		"confirm_password": "SuperSecret1",
		"display_name":     "Test User",
	})

	status, rotated := postJSON(t, app, "/authorize/token/refresh", map[string]any{
		"refresh_token": signup["refresh_token"],
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, signup["refresh_token"], rotated["refresh_token"])

	// spent token
	status, _ = postJSON(t, app, "/authorize/token/refresh", map[string]any{
		"refresh_token": signup["refresh_token"],
	})
	assert.Equal(t, http.StatusConflict, status)

	// garbage token
	status, _ = postJSON(t, app, "/authorize/token/refresh", map[string]any{
		"refresh_token": "not-a-jwt",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

// Full credential lifecycle through the HTTP surface: signup, failed login,
// two reset requests where the second supersedes the first, password change
// through the surviving token, and rejection of the consumed token.
func TestCredentialLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/authorize/signup", map[string]any{
		"email":            "a@b.com",
		"password":         "PasswordOne1",
		"confirm_password": "PasswordOne1",
		"display_name":     "Lifecycle User",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = postJSON(t, app, "/authorize/login", map[string]any{
		"email":    "a@b.com",
		"password": "WrongPassword2",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	status, first := postJSON(t, app, "/authorize/login/resetPassword", map[string]any{
		"email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, first["token"])

	status, second := postJSON(t, app, "/authorize/login/resetPassword", map[string]any{
		"email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, second["token"])
	require.NotEqual(t, first["token"], second["token"])

	// the superseded token is dead
	status, _ = postJSON(t, app, "/authorize/login/resetPassword/savePassword", map[string]any{
		"reset_token":  first["token"],
		"new_password": "PasswordThree3",
	})
	require.Equal(t, http.StatusNotFound, status)

	status, pair := postJSON(t, app, "/authorize/login/resetPassword/savePassword", map[string]any{
		"reset_token":  second["token"],
		"new_password": "PasswordThree3",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, pair["access_token"])

	status, _ = postJSON(t, app, "/authorize/login", map[string]any{
		"email":    "a@b.com",
		"password": "PasswordOne1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = postJSON(t, app, "/authorize/login", map[string]any{
		"email":    "a@b.com",
		"password": "PasswordThree3",
	})
	assert.Equal(t, http.StatusOK, status)

	// single use: the consumed token cannot be replayed
	status, _ = postJSON(t, app, "/authorize/login/resetPassword/savePassword", map[string]any{
		"reset_token":  second["token"],
		"new_password": "PasswordFour4",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestResetPasswordEndpointUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/authorize/login/resetPassword", map[string]any{
		"email": "nobody@example.com",
	})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "user not found", body["message"])
}
