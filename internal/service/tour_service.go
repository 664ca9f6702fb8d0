package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roamers-service/internal/events"
	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

const dateOnlyLayout = "2006-01-02"

// MaxCostPerPerson is the largest value the NUMERIC(10,2) cost column holds.
const MaxCostPerPerson = 99999999.99

func validateCost(cost float64) error {
	if cost < 0 {
		return ValidationError("costPerPerson cannot be negative")
	}
	if cost > MaxCostPerPerson {
		return ValidationError("costPerPerson cannot exceed 99999999.99")
	}
	return nil
}

// ParseTourDate accepts a calendar date (read as UTC midnight) or an RFC 3339 timestamp.
func ParseTourDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, ValidationError("tourDate must be YYYY-MM-DD or an RFC 3339 timestamp")
}

type CreateTourInput struct {
	PlaceID       int64
	TourDate      time.Time
	CostPerPerson float64
}

type UpdateTourInput struct {
	PlaceID       *int64
	TourDate      *time.Time
	CostPerPerson *float64
}

type TourService interface {
	CreateTour(ctx context.Context, input CreateTourInput) (*model.CommunityTour, error)
	UpdateTour(ctx context.Context, id int64, input UpdateTourInput) (*model.CommunityTour, error)
	DeleteTour(ctx context.Context, id int64) error
	GetTour(ctx context.Context, id int64) (*model.CommunityTour, error)
	ListTours(ctx context.Context) ([]model.TourListing, error)
	JoinTour(ctx context.Context, tourID int64, user *model.User) (*model.CommunityTour, error)
	ListParticipants(ctx context.Context, tourID int64) ([]model.Participant, error)
}

type tourService struct {
	tourRepo  repository.TourRepository
	spotRepo  repository.SpotRepository
	publisher events.EventPublisher
}

func NewTourService(tourRepo repository.TourRepository, spotRepo repository.SpotRepository, pub events.EventPublisher) TourService {
	return &tourService{tourRepo: tourRepo, spotRepo: spotRepo, publisher: pub}
}

func (s *tourService) ensurePlace(ctx context.Context, placeID int64) error {
	if _, err := s.spotRepo.FindByID(ctx, placeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSpotNotFound
		}
		return fmt.Errorf("find place: %w", err)
	}
	return nil
}

func (s *tourService) CreateTour(ctx context.Context, input CreateTourInput) (*model.CommunityTour, error) {
	if input.PlaceID <= 0 || input.TourDate.IsZero() {
		return nil, ValidationError("placeId, tourDate and costPerPerson are required")
	}
	if err := validateCost(input.CostPerPerson); err != nil {
		return nil, err
	}
	if !input.TourDate.After(time.Now()) {
		return nil, ErrTourDateInPast
	}
	if err := s.ensurePlace(ctx, input.PlaceID); err != nil {
		return nil, err
	}

	created, err := s.tourRepo.Create(ctx, &model.CommunityTour{
		PlaceID:       input.PlaceID,
		TourDate:      input.TourDate,
		CostPerPerson: input.CostPerPerson,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReferenceMissing):
			return nil, ErrSpotNotFound
		case errors.Is(err, repository.ErrValueOutOfRange):
			return nil, ValidationError("costPerPerson is out of range")
		}
		return nil, fmt.Errorf("create tour: %w", err)
	}

	go s.publisher.PublishTourCreated(created)

	return created, nil
}

func (s *tourService) UpdateTour(ctx context.Context, id int64, input UpdateTourInput) (*model.CommunityTour, error) {
	if input.TourDate != nil && !input.TourDate.After(time.Now()) {
		return nil, ErrTourDateInPast
	}
	if input.CostPerPerson != nil {
		if err := validateCost(*input.CostPerPerson); err != nil {
			return nil, err
		}
	}
	if input.PlaceID != nil {
		if err := s.ensurePlace(ctx, *input.PlaceID); err != nil {
			return nil, err
		}
	}

	updated, err := s.tourRepo.Update(ctx, id, repository.TourChanges{
		PlaceID:       input.PlaceID,
		TourDate:      input.TourDate,
		CostPerPerson: input.CostPerPerson,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTourNotFound
		case errors.Is(err, repository.ErrReferenceMissing):
			return nil, ErrSpotNotFound
		case errors.Is(err, repository.ErrValueOutOfRange):
			return nil, ValidationError("costPerPerson is out of range")
		}
		return nil, fmt.Errorf("update tour: %w", err)
	}
	return updated, nil
}

func (s *tourService) DeleteTour(ctx context.Context, id int64) error {
	if err := s.tourRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTourNotFound
		}
		return fmt.Errorf("delete tour: %w", err)
	}
	return nil
}

func (s *tourService) GetTour(ctx context.Context, id int64) (*model.CommunityTour, error) {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("find tour: %w", err)
	}
	return tour, nil
}

func (s *tourService) ListTours(ctx context.Context) ([]model.TourListing, error) {
	return s.tourRepo.List(ctx)
}

// JoinTour enrolls user in the tour. Checks run in a fixed order: role, existence,
// date, then prior participation, so a past tour is rejected as ended even for
// someone who already joined it.
func (s *tourService) JoinTour(ctx context.Context, tourID int64, user *model.User) (*model.CommunityTour, error) {
	if user.IsAdmin() {
		return nil, ErrAdminCannotJoin
	}

	tour, err := s.GetTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	if !tour.TourDate.After(time.Now()) {
		return nil, ErrTourEnded
	}

	joined, err := s.tourRepo.HasParticipant(ctx, tourID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check participation: %w", err)
	}
	if joined {
		return nil, ErrAlreadyJoined
	}

	updated, err := s.tourRepo.AddParticipant(ctx, tourID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("add participant: %w", err)
	}

	go s.publisher.PublishTourJoined(tourID, user.ID)

	return updated, nil
}

func (s *tourService) ListParticipants(ctx context.Context, tourID int64) ([]model.Participant, error) {
	if _, err := s.GetTour(ctx, tourID); err != nil {
		return nil, err
	}
	return s.tourRepo.ListParticipants(ctx, tourID)
}
