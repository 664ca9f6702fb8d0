package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

type UserService interface {
	UpdateLocation(ctx context.Context, actor *model.User, userID int64, location string) error
	RegisterDeviceToken(ctx context.Context, userID int64, token string) error
}

type userService struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceTokenRepository
}

func NewUserService(userRepo repository.UserRepository, deviceRepo repository.DeviceTokenRepository) UserService {
	return &userService{userRepo: userRepo, deviceRepo: deviceRepo}
}

// UpdateLocation lets a user change their own location. Admins may change anyone's.
func (s *userService) UpdateLocation(ctx context.Context, actor *model.User, userID int64, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return ValidationError("location is required")
	}
	if actor == nil || (actor.ID != userID && !actor.IsAdmin()) {
		return ErrLocationNotOwned
	}

	if err := s.userRepo.UpdateLocation(ctx, userID, location); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (s *userService) RegisterDeviceToken(ctx context.Context, userID int64, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ValidationError("device_token is required")
	}
	if err := s.deviceRepo.Register(ctx, userID, token); err != nil {
		return fmt.Errorf("register device token: %w", err)
	}
	return nil
}
