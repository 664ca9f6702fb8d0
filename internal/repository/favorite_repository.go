package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roamers-service/internal/model"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, spotID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.TouristSpot, error)
	Remove(ctx context.Context, userID, spotID int64) error
}

type postgresFavoriteRepository struct {
	db *sqlx.DB
}

func NewPostgresFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &postgresFavoriteRepository{db: db}
}

// Add returns ErrAlreadyExists for a duplicate pair and ErrReferenceMissing
// when the spot does not exist.
func (r *postgresFavoriteRepository) Add(ctx context.Context, userID, spotID int64) error {
	query := `INSERT INTO favorite_spots (user_id, spot_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, userID, spotID)
	return translate(err)
}

func (r *postgresFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]model.TouristSpot, error) {
	spots := []model.TouristSpot{}
	query := `
		SELECT s.id, s.name, s.category, s.location, s.distance_from_current_location, s.estimated_travel_time,
		       s.description, s.image_url, s.created_at
		FROM favorite_spots f
		JOIN tourist_spots s ON s.id = f.spot_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`
	if err := r.db.SelectContext(ctx, &spots, query, userID); err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *postgresFavoriteRepository) Remove(ctx context.Context, userID, spotID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorite_spots WHERE user_id = $1 AND spot_id = $2`, userID, spotID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
