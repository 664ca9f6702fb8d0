package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"roamers-service/internal/model"
)

const tourColumns = `id, place_id, tour_date, cost_per_person, total_enrolled, created_at`

// TourChanges holds the optional fields of a tour update. Nil fields are left alone.
type TourChanges struct {
	PlaceID       *int64
	TourDate      *time.Time
	CostPerPerson *float64
}

type TourRepository interface {
	Create(ctx context.Context, tour *model.CommunityTour) (*model.CommunityTour, error)
	FindByID(ctx context.Context, id int64) (*model.CommunityTour, error)
	List(ctx context.Context) ([]model.TourListing, error)
	Update(ctx context.Context, id int64, changes TourChanges) (*model.CommunityTour, error)
	Delete(ctx context.Context, id int64) error
	HasParticipant(ctx context.Context, tourID, userID int64) (bool, error)
	AddParticipant(ctx context.Context, tourID, userID int64) (*model.CommunityTour, error)
	ListParticipants(ctx context.Context, tourID int64) ([]model.Participant, error)
}

type postgresTourRepository struct {
	db *sqlx.DB
}

func NewPostgresTourRepository(db *sqlx.DB) TourRepository {
	return &postgresTourRepository{db: db}
}

func (r *postgresTourRepository) Create(ctx context.Context, tour *model.CommunityTour) (*model.CommunityTour, error) {
	query := `
		INSERT INTO community_tours (place_id, tour_date, cost_per_person)
		VALUES ($1, $2, $3)
		RETURNING id, cost_per_person, total_enrolled, created_at
	`

	// cost_per_person comes back rounded to the column's scale.
	row := r.db.QueryRowxContext(ctx, query, tour.PlaceID, tour.TourDate, tour.CostPerPerson)
	if err := row.Scan(&tour.ID, &tour.CostPerPerson, &tour.TotalEnrolled, &tour.CreatedAt); err != nil {
		return nil, translate(err)
	}

	return tour, nil
}

func (r *postgresTourRepository) FindByID(ctx context.Context, id int64) (*model.CommunityTour, error) {
	var tour model.CommunityTour
	query := `SELECT ` + tourColumns + ` FROM community_tours WHERE id = $1`
	if err := r.db.GetContext(ctx, &tour, query, id); err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func (r *postgresTourRepository) List(ctx context.Context) ([]model.TourListing, error) {
	tours := []model.TourListing{}
	query := `
		SELECT t.id, t.place_id, t.tour_date, t.cost_per_person, t.total_enrolled, t.created_at,
		       s.name AS place, s.location AS place_location
		FROM community_tours t
		JOIN tourist_spots s ON s.id = t.place_id
		ORDER BY t.tour_date, t.id
	`
	if err := r.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *postgresTourRepository) Update(ctx context.Context, id int64, changes TourChanges) (*model.CommunityTour, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if changes.PlaceID != nil {
		setClauses = append(setClauses, fmt.Sprintf("place_id = $%d", argID))
		args = append(args, *changes.PlaceID)
		argID++
	}
	if changes.TourDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("tour_date = $%d", argID))
		args = append(args, *changes.TourDate)
		argID++
	}
	if changes.CostPerPerson != nil {
		setClauses = append(setClauses, fmt.Sprintf("cost_per_person = $%d", argID))
		args = append(args, *changes.CostPerPerson)
		argID++
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf("UPDATE community_tours SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argID, tourColumns)
	args = append(args, id)

	var tour model.CommunityTour
	if err := r.db.GetContext(ctx, &tour, query, args...); err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

// Delete removes a tour. Participation rows go with it through ON DELETE CASCADE.
func (r *postgresTourRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM community_tours WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *postgresTourRepository) HasParticipant(ctx context.Context, tourID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tour_participants WHERE tour_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, tourID, userID); err != nil {
		return false, err
	}
	return exists, nil
}

// AddParticipant records the enrollment and bumps the tour's counter in one
// transaction. The tour row stays locked until commit so concurrent joins
// serialize and total_enrolled always equals the number of participant rows.
func (r *postgresTourRepository) AddParticipant(ctx context.Context, tourID, userID int64) (*model.CommunityTour, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin join transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM community_tours WHERE id = $1 FOR UPDATE`, tourID); err != nil {
		return nil, translate(err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tour_participants (tour_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (tour_id, user_id) DO NOTHING
	`, tourID, userID)
	if err != nil {
		return nil, translate(err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if inserted == 0 {
		return nil, ErrAlreadyExists
	}

	var tour model.CommunityTour
	query := `UPDATE community_tours SET total_enrolled = total_enrolled + 1 WHERE id = $1 RETURNING ` + tourColumns
	if err := tx.GetContext(ctx, &tour, query, tourID); err != nil {
		return nil, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit join transaction: %w", err)
	}
	return &tour, nil
}

func (r *postgresTourRepository) ListParticipants(ctx context.Context, tourID int64) ([]model.Participant, error) {
	participants := []model.Participant{}
	query := `
		SELECT p.user_id, u.username, u.email, p.joined_at
		FROM tour_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.tour_id = $1
		ORDER BY p.joined_at, p.id
	`
	if err := r.db.SelectContext(ctx, &participants, query, tourID); err != nil {
		return nil, err
	}
	return participants, nil
}
