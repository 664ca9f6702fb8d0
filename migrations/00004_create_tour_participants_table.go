package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTourParticipantsTable, downCreateTourParticipantsTable)
}

func upCreateTourParticipantsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE tour_participants (
			id BIGSERIAL PRIMARY KEY,
			tour_id BIGINT NOT NULL REFERENCES community_tours(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			UNIQUE(tour_id, user_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateTourParticipantsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS tour_participants;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
