package service

import (
	"context"
	"errors"
	"fmt"

	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID, spotID int64, rating int, comment string) (*model.Review, error)
	ListReviews(ctx context.Context, spotID int64) ([]model.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID int64, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	spotRepo   repository.SpotRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, spotRepo repository.SpotRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, spotRepo: spotRepo}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ValidationError("rating must be between 1 and 5")
	}
	return nil
}

func (s *reviewService) CreateReview(ctx context.Context, userID, spotID int64, rating int, comment string) (*model.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := s.spotRepo.FindByID(ctx, spotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("find spot: %w", err)
	}

	review, err := s.reviewRepo.Create(ctx, &model.Review{SpotID: spotID, UserID: userID, Rating: rating, Comment: comment})
	if err != nil {
		if errors.Is(err, repository.ErrReferenceMissing) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, spotID int64) ([]model.Review, error) {
	return s.reviewRepo.ListBySpot(ctx, spotID)
}

// ownedReview loads a review only if userID owns it. A missing review and
// someone else's review both come back as ErrReviewNotOwned.
func (s *reviewService) ownedReview(ctx context.Context, userID, reviewID int64) (*model.Review, error) {
	review, err := s.reviewRepo.FindByIDAndUser(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotOwned
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID int64, rating int, comment string) (*model.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotOwned
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	if _, err := s.ownedReview(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotOwned
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
