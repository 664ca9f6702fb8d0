package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCommunityToursTable, downCreateCommunityToursTable)
}

func upCreateCommunityToursTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE community_tours (
			id BIGSERIAL PRIMARY KEY,
			place_id BIGINT NOT NULL REFERENCES tourist_spots(id),
			tour_date TIMESTAMP WITH TIME ZONE NOT NULL,
			cost_per_person NUMERIC(10, 2) NOT NULL CHECK (cost_per_person >= 0),
			total_enrolled INT NOT NULL DEFAULT 0 CHECK (total_enrolled >= 0),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
		CREATE INDEX idx_community_tours_place_id ON community_tours (place_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCommunityToursTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS community_tours;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
