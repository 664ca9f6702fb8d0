package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/model"
	"roamers-service/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Role     string  `json:"role" validate:"omitempty,oneof=user admin"`
	Location *string `json:"location" validate:"omitempty,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Location *string `json:"location,omitempty"`
}

func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Location: user.Location,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest

	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}

	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), service.RegisterInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
		Role:     request.Role,
		Location: request.Location,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"role":    user.Role,
		"userId":  user.ID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}

	if err := h.validate.Struct(&request); err != nil {
		return writeError(c, service.ValidationError("email and password are required"))
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), request.Email, request.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
		"user":  newUserResponse(user),
	})
}

func (h *AuthHandler) GetUserProfile(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(newUserResponse(CurrentUser(c)))
}
