package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateFavoriteSpotsTable, downCreateFavoriteSpotsTable)
}

func upCreateFavoriteSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE favorite_spots (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			spot_id BIGINT NOT NULL REFERENCES tourist_spots(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			UNIQUE(user_id, spot_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateFavoriteSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS favorite_spots;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
