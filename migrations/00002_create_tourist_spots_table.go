package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTouristSpotsTable, downCreateTouristSpotsTable)
}

func upCreateTouristSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE tourist_spots (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			location TEXT NOT NULL,
			distance_from_current_location TEXT NOT NULL DEFAULT '',
			estimated_travel_time TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
		CREATE INDEX idx_tourist_spots_category ON tourist_spots (category);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateTouristSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS tourist_spots;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
