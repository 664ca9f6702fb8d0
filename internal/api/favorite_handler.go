package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

type FavoriteHandler struct {
	favoriteService service.FavoriteService
	validate        *validator.Validate
}

func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService, validate: validator.New()}
}

type AddFavoriteRequest struct {
	SpotID int64 `json:"spotId" validate:"required,gt=0"`
}

func (h *FavoriteHandler) AddFavorite(c *fiber.Ctx) error {
	var request AddFavoriteRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	if err := h.favoriteService.AddFavorite(c.UserContext(), CurrentUser(c).ID, request.SpotID); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "added to favorites", "spotId": request.SpotID})
}

func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	spots, err := h.favoriteService.ListFavorites(c.UserContext(), CurrentUser(c).ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(spots)
}

func (h *FavoriteHandler) RemoveFavorite(c *fiber.Ctx) error {
	spotID, err := paramID(c, "spotId")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.favoriteService.RemoveFavorite(c.UserContext(), CurrentUser(c).ID, spotID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "removed from favorites"})
}
