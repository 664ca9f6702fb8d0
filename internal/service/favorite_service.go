package service

import (
	"context"
	"errors"
	"fmt"

	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, spotID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]model.TouristSpot, error)
	RemoveFavorite(ctx context.Context, userID, spotID int64) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo}
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID, spotID int64) error {
	err := s.favoriteRepo.Add(ctx, userID, spotID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrFavoriteExists
	case errors.Is(err, repository.ErrReferenceMissing):
		return ErrSpotNotFound
	default:
		return fmt.Errorf("add favorite: %w", err)
	}
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID int64) ([]model.TouristSpot, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, spotID int64) error {
	if err := s.favoriteRepo.Remove(ctx, userID, spotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
