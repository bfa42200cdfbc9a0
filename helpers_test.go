package auth_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamchallenge/bookti-auth"
	"github.com/uptrace/bun"
)

var testDBSeq atomic.Int64

// setupTestDB opens a private in-memory sqlite database with the module
// tables created. cache=shared plus a single connection keeps the database
// alive for the whole test.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testDBSeq.Add(1))

	db, err := auth.OpenSQLite(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, auth.CreateAuthTables(context.Background(), db))

	return db
}

func setupTestRepo(t *testing.T) auth.RepositoryManager {
	t.Helper()
	return auth.NewRepositoryManager(setupTestDB(t))
}

// seedUser registers a user with the given credentials straight through the
// repository, bypassing the signup flow.
func seedUser(t *testing.T, repo auth.RepositoryManager, email, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &auth.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return user
}
