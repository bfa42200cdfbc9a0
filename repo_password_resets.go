package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PasswordResets is the credential store's reset token surface
type PasswordResets interface {
	repository.Repository[*PasswordResetToken]

	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*PasswordResetToken, error)
	GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*PasswordResetToken, error)

	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error
}

type passwordResets struct {
	repository.Repository[*PasswordResetToken]
	db *bun.DB
}

var (
	_ PasswordResets                             = (*passwordResets)(nil)
	_ repository.Repository[*PasswordResetToken] = (*passwordResets)(nil)
)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	repo := repository.NewRepository[*PasswordResetToken](db, repository.ModelHandlers[*PasswordResetToken]{
		NewRecord: func() *PasswordResetToken {
			return &PasswordResetToken{}
		},
		GetID: func(record *PasswordResetToken) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *PasswordResetToken, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &passwordResets{
		Repository: repo,
		db:         db,
	}
}

func (r *passwordResets) GetByToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	return r.GetByTokenTx(ctx, r.db, token)
}

func (r *passwordResets) GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

func (r *passwordResets) GetByUser(ctx context.Context, userID uuid.UUID) (*PasswordResetToken, error) {
	return r.GetByUserTx(ctx, r.db, userID)
}

func (r *passwordResets) GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *passwordResets) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DeleteByUserTx(ctx, r.db, userID)
}

func (r *passwordResets) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*PasswordResetToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)

	return err
}

func (r *passwordResets) DeleteByToken(ctx context.Context, token string) error {
	return r.DeleteByTokenTx(ctx, r.db, token)
}

func (r *passwordResets) DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error {
	_, err := tx.NewDelete().
		Model((*PasswordResetToken)(nil)).
		Where("token = ?", token).
		Exec(ctx)

	return err
}
