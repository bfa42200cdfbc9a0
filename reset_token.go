package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// resetTokenBytes is the entropy of an opaque reset token, 256 bits
const resetTokenBytes = 32

// DefaultResetTokenTTL is the validity window for reset tokens. The
// original logic never spelled the window out; one hour is the documented
// choice and Config can override it.
const DefaultResetTokenTTL = time.Hour

// ResetTokenIssuer owns the per-user reset token state machine:
// NoActiveToken -> ActiveToken -> NoActiveToken. Issuing supersedes any
// active token, consuming deletes, and expiry is treated as absence.
type ResetTokenIssuer struct {
	repo   RepositoryManager
	ttl    time.Duration
	logger Logger
}

// NewResetTokenIssuer creates an issuer with the given validity window.
// A zero ttl falls back to DefaultResetTokenTTL.
func NewResetTokenIssuer(repo RepositoryManager, ttl time.Duration) *ResetTokenIssuer {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokenIssuer{
		repo:   repo,
		ttl:    ttl,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the issuer
func (i *ResetTokenIssuer) WithLogger(logger Logger) *ResetTokenIssuer {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// Issue creates a fresh token for the user, deleting any prior token first
// so no two active tokens coexist. Runs in its own transaction.
func (i *ResetTokenIssuer) Issue(ctx context.Context, user *User) (*PasswordResetToken, error) {
	var record *PasswordResetToken

	err := i.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		record, err = i.IssueTx(ctx, tx, user)
		return err
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// IssueTx is Issue inside an existing transaction. The delete-then-insert
// sequence plus the unique user_id constraint keeps concurrent issuers from
// leaving two active tokens behind.
func (i *ResetTokenIssuer) IssueTx(ctx context.Context, tx bun.IDB, user *User) (*PasswordResetToken, error) {
	if err := i.repo.PasswordResets().DeleteByUserTx(ctx, tx, user.ID); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to invalidate prior reset token")
	}

	token, err := NewResetToken()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset token")
	}

	record := &PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(i.ttl),
	}

	created, err := i.repo.PasswordResets().CreateTx(ctx, tx, record)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}

	return created, nil
}

// Lookup resolves an active token. Absent tokens fail with
// ErrResetTokenNotFound, expired ones fail closed with ErrResetTokenExpired
// even when physical deletion has been deferred.
func (i *ResetTokenIssuer) Lookup(ctx context.Context, token string) (*PasswordResetToken, error) {
	record, err := i.repo.PasswordResets().GetByToken(ctx, token)
	return i.checkLookup(record, err)
}

// LookupTx is Lookup inside an existing transaction
func (i *ResetTokenIssuer) LookupTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error) {
	record, err := i.repo.PasswordResets().GetByTokenTx(ctx, tx, token)
	return i.checkLookup(record, err)
}

func (i *ResetTokenIssuer) checkLookup(record *PasswordResetToken, err error) (*PasswordResetToken, error) {
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrResetTokenNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset token")
	}

	expired, err := i.expired(record)
	if err != nil {
		return nil, err
	}

	if expired {
		return nil, ErrResetTokenExpired
	}

	return record, nil
}

// Consume deletes the token after a successful reset, completing the
// single-use contract
func (i *ResetTokenIssuer) Consume(ctx context.Context, tx bun.IDB, record *PasswordResetToken) error {
	if err := i.repo.PasswordResets().DeleteByUserTx(ctx, tx, record.UserID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token")
	}
	return nil
}

func (i *ResetTokenIssuer) expired(record *PasswordResetToken) (bool, error) {
	if !record.ExpiresAt.IsZero() {
		return record.Expired(time.Now()), nil
	}

	// rows that predate the expires_at column only carry created_at
	if record.CreatedAt == nil {
		return true, nil
	}

	expired, err := IsOutsideThresholdPeriod(*record.CreatedAt, fmt.Sprintf("%ds", int(i.ttl.Seconds())))
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
	}

	return expired, nil
}

// NewResetToken generates a cryptographically random opaque token
func NewResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
