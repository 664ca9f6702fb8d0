package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roamers-service/internal/model"
)

const spotColumns = `id, name, category, location, distance_from_current_location, estimated_travel_time, description, image_url, created_at`

type SpotRepository interface {
	Create(ctx context.Context, spot *model.TouristSpot) (*model.TouristSpot, error)
	FindByID(ctx context.Context, id int64) (*model.TouristSpot, error)
	List(ctx context.Context, category string) ([]model.TouristSpot, error)
	ListByLocation(ctx context.Context, location string) ([]model.TouristSpot, error)
	ListMostVisited(ctx context.Context, limit int) ([]model.PopularSpot, error)
}

type postgresSpotRepository struct {
	db *sqlx.DB
}

func NewPostgresSpotRepository(db *sqlx.DB) SpotRepository {
	return &postgresSpotRepository{db: db}
}

func (r *postgresSpotRepository) Create(ctx context.Context, spot *model.TouristSpot) (*model.TouristSpot, error) {
	query := `
		INSERT INTO tourist_spots (name, category, location, distance_from_current_location, estimated_travel_time, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, spot.Name, spot.Category, spot.Location, spot.Distance, spot.TravelTime, spot.Description, spot.ImageURL)
	if err := row.Scan(&spot.ID, &spot.CreatedAt); err != nil {
		return nil, translate(err)
	}

	return spot, nil
}

func (r *postgresSpotRepository) FindByID(ctx context.Context, id int64) (*model.TouristSpot, error) {
	var spot model.TouristSpot
	query := `SELECT ` + spotColumns + ` FROM tourist_spots WHERE id = $1`
	if err := r.db.GetContext(ctx, &spot, query, id); err != nil {
		return nil, translate(err)
	}
	return &spot, nil
}

// List returns every spot, or only those of one category when category is non-empty.
func (r *postgresSpotRepository) List(ctx context.Context, category string) ([]model.TouristSpot, error) {
	spots := []model.TouristSpot{}
	var err error
	if category == "" {
		err = r.db.SelectContext(ctx, &spots, `SELECT `+spotColumns+` FROM tourist_spots ORDER BY id`)
	} else {
		err = r.db.SelectContext(ctx, &spots, `SELECT `+spotColumns+` FROM tourist_spots WHERE category = $1 ORDER BY id`, category)
	}
	if err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *postgresSpotRepository) ListByLocation(ctx context.Context, location string) ([]model.TouristSpot, error) {
	spots := []model.TouristSpot{}
	query := `SELECT ` + spotColumns + ` FROM tourist_spots WHERE LOWER(location) = LOWER($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &spots, query, location); err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *postgresSpotRepository) ListMostVisited(ctx context.Context, limit int) ([]model.PopularSpot, error) {
	spots := []model.PopularSpot{}
	query := `
		SELECT s.id, s.name, s.category, s.location, s.distance_from_current_location, s.estimated_travel_time,
		       s.description, s.image_url, s.created_at, COALESCE(SUM(t.total_enrolled), 0) AS booking_count
		FROM tourist_spots s
		JOIN community_tours t ON t.place_id = s.id
		GROUP BY s.id
		HAVING COALESCE(SUM(t.total_enrolled), 0) > 0
		ORDER BY booking_count DESC, s.id
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &spots, query, limit); err != nil {
		return nil, err
	}
	return spots, nil
}
