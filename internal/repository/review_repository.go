package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roamers-service/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	ListBySpot(ctx context.Context, spotID int64) ([]model.Review, error)
	FindByIDAndUser(ctx context.Context, id, userID int64) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id, userID int64) error
}

type postgresReviewRepository struct {
	db *sqlx.DB
}

func NewPostgresReviewRepository(db *sqlx.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	query := `
		INSERT INTO reviews (spot_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, review.SpotID, review.UserID, review.Rating, review.Comment)
	if err := row.Scan(&review.ID, &review.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return review, nil
}

func (r *postgresReviewRepository) ListBySpot(ctx context.Context, spotID int64) ([]model.Review, error) {
	reviews := []model.Review{}
	query := `
		SELECT r.id, r.spot_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.spot_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`
	if err := r.db.SelectContext(ctx, &reviews, query, spotID); err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByIDAndUser only matches a review owned by userID, so "missing" and
// "someone else's" are indistinguishable to the caller.
func (r *postgresReviewRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*model.Review, error) {
	var review model.Review
	query := `SELECT id, spot_id, user_id, rating, comment, created_at FROM reviews WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &review, query, id, userID); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `UPDATE reviews SET rating = $1, comment = $2, updated_at = now() WHERE id = $3 AND user_id = $4`
	res, err := r.db.ExecContext(ctx, query, review.Rating, review.Comment, review.ID, review.UserID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
