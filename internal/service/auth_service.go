package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"roamers-service/internal/jwt"
	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Location *string
}

type AuthService interface {
	RegisterUser(ctx context.Context, input RegisterInput) (*model.User, error)
	LoginUser(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	GetUserProfile(ctx context.Context, userID int64) (*model.User, error)
	ProvisionAdmin(ctx context.Context, username, email, password string) (int64, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// normalizeEmail lower-cases addresses so "A@x.com" and "a@x.com" name one account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareAgainstDummy burns the same bcrypt work as a real comparison so an
// unknown email takes as long to reject as a wrong password.
func compareAgainstDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("roamers-placeholder-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *authService) RegisterUser(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, ValidationError("username, email and password are required")
	}

	switch input.Role {
	case "", model.RoleUser:
	case model.RoleAdmin:
		return nil, ErrAdminRegistration
	default:
		return nil, ValidationError("role must be user")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
		Location:     input.Location,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.ID = newID

	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (string, *model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ValidationError("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			compareAgainstDummy(password)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// Authenticate verifies the token and loads the user it names. The role is
// read from the database on every call rather than trusted from the token, so
// a demotion takes effect on the next request at the price of one query.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return s.GetUserProfile(ctx, userID)
}

func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ProvisionAdmin creates the admin account, or promotes the account that
// already owns the email.
func (s *authService) ProvisionAdmin(ctx context.Context, username, email, password string) (int64, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return 0, ValidationError("admin email and password are required")
	}
	if strings.TrimSpace(username) == "" {
		username = "admin"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.userRepo.UpsertAdmin(ctx, &model.User{
		Username:     strings.TrimSpace(username),
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert admin: %w", err)
	}
	return id, nil
}
