package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddUsersEmailLowerIndex, downAddUsersEmailLowerIndex)
}

func upAddUsersEmailLowerIndex(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE users SET email = LOWER(email) WHERE email <> LOWER(email)`); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `CREATE UNIQUE INDEX users_email_lower_key ON users (LOWER(email))`)

	return err
}

func downAddUsersEmailLowerIndex(ctx context.Context, tx *sql.Tx) error {
	query := `DROP INDEX IF EXISTS users_email_lower_key;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
