package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateReviewsTable, downCreateReviewsTable)
}

func upCreateReviewsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE reviews (
			id BIGSERIAL PRIMARY KEY,
			spot_id BIGINT NOT NULL REFERENCES tourist_spots(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			rating INT NOT NULL CHECK (rating >= 1 AND rating <= 5),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
		CREATE INDEX idx_reviews_spot_id ON reviews (spot_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateReviewsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS reviews;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
