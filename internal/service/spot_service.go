package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

const mostVisitedLimit = 10

type SpotService interface {
	CreateSpot(ctx context.Context, spot *model.TouristSpot) (*model.TouristSpot, error)
	GetSpot(ctx context.Context, id int64) (*model.TouristSpot, error)
	ListSpots(ctx context.Context, category string) ([]model.TouristSpot, error)
	Recommended(ctx context.Context, userID int64) ([]model.TouristSpot, error)
	MostVisited(ctx context.Context) ([]model.PopularSpot, error)
}

type spotService struct {
	spotRepo repository.SpotRepository
	userRepo repository.UserRepository
}

func NewSpotService(spotRepo repository.SpotRepository, userRepo repository.UserRepository) SpotService {
	return &spotService{spotRepo: spotRepo, userRepo: userRepo}
}

func (s *spotService) CreateSpot(ctx context.Context, spot *model.TouristSpot) (*model.TouristSpot, error) {
	if strings.TrimSpace(spot.Name) == "" || strings.TrimSpace(spot.Category) == "" || strings.TrimSpace(spot.Location) == "" {
		return nil, ValidationError("name, category and location are required")
	}

	created, err := s.spotRepo.Create(ctx, spot)
	if err != nil {
		return nil, fmt.Errorf("create spot: %w", err)
	}
	return created, nil
}

func (s *spotService) GetSpot(ctx context.Context, id int64) (*model.TouristSpot, error) {
	spot, err := s.spotRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("find spot: %w", err)
	}
	return spot, nil
}

func (s *spotService) ListSpots(ctx context.Context, category string) ([]model.TouristSpot, error) {
	return s.spotRepo.List(ctx, strings.TrimSpace(category))
}

// Recommended lists spots in the user's home location. A user without a
// location gets an empty list.
func (s *spotService) Recommended(ctx context.Context, userID int64) ([]model.TouristSpot, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Location == nil || strings.TrimSpace(*user.Location) == "" {
		return []model.TouristSpot{}, nil
	}
	return s.spotRepo.ListByLocation(ctx, strings.TrimSpace(*user.Location))
}

func (s *spotService) MostVisited(ctx context.Context) ([]model.PopularSpot, error) {
	return s.spotRepo.ListMostVisited(ctx, mostVisitedLimit)
}
