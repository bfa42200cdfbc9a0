package auth

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenSQLite opens an embedded sqlite database wrapped with bun. Production
// deployments point bun at postgres instead; the shim keeps local setups and
// integration tests dependency free.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateAuthTables creates the module's tables from the bun models. Hosts
// with a migration pipeline should use GetMigrationsFS instead.
func CreateAuthTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*PasswordResetToken)(nil),
		(*RevokedToken)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
