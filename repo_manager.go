package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories. It is the single source of
// truth; the core holds no cross-request state outside of it.
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	PasswordResets() PasswordResets
	RevokedTokens() RevocationLedger
}

type mngr struct {
	db             *bun.DB
	users          Users
	passwordResets PasswordResets
	revokedTokens  RevocationLedger
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:             db,
		users:          NewUsersRepository(db),
		passwordResets: NewPasswordResetsRepository(db),
		revokedTokens:  NewRevocationLedger(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.passwordResets == nil {
		return errors.New("repository passwordResets should be initialized")
	}

	if m.revokedTokens == nil {
		return errors.New("revocation ledger should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) PasswordResets() PasswordResets {
	return m.passwordResets
}

func (m mngr) RevokedTokens() RevocationLedger {
	return m.revokedTokens
}
