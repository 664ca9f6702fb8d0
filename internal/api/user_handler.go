package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validate: validator.New()}
}

type UpdateLocationRequest struct {
	Location string `json:"location" validate:"required,max=128"`
}

type RegisterDeviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

func (h *UserHandler) UpdateLocation(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var request UpdateLocationRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	if err := h.userService.UpdateLocation(c.UserContext(), CurrentUser(c), userID, request.Location); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "location updated", "location": request.Location})
}

func (h *UserHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	var request RegisterDeviceTokenRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	if err := h.userService.RegisterDeviceToken(c.UserContext(), CurrentUser(c).ID, request.DeviceToken); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "device token registered"})
}
