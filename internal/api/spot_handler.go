package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"roamers-service/internal/model"
	"roamers-service/internal/service"
)

// ImagePresigner is implemented by *s3.FilePresigner.
type ImagePresigner interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error)
	PublicURL(objectKey string) string
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type SpotHandler struct {
	spotService service.SpotService
	presigner   ImagePresigner
	validate    *validator.Validate
}

// NewSpotHandler accepts a nil presigner; the upload route is then not mounted.
func NewSpotHandler(spotService service.SpotService, presigner ImagePresigner) *SpotHandler {
	return &SpotHandler{spotService: spotService, presigner: presigner, validate: validator.New()}
}

type CreateSpotRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Location    string `json:"location" validate:"required,max=200"`
	Distance    string `json:"distance_from_current_location" validate:"max=100"`
	TravelTime  string `json:"estimated_travel_time" validate:"max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

func (h *SpotHandler) CreateSpot(c *fiber.Ctx) error {
	var request CreateSpotRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	spot, err := h.spotService.CreateSpot(c.UserContext(), &model.TouristSpot{
		Name:        request.Name,
		Category:    request.Category,
		Location:    request.Location,
		Distance:    request.Distance,
		TravelTime:  request.TravelTime,
		Description: request.Description,
		ImageURL:    request.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(spot)
}

func (h *SpotHandler) GetSpot(c *fiber.Ctx) error {
	spotID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	spot, err := h.spotService.GetSpot(c.UserContext(), spotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(spot)
}

func (h *SpotHandler) ListSpots(c *fiber.Ctx) error {
	spots, err := h.spotService.ListSpots(c.UserContext(), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(spots)
}

func (h *SpotHandler) Recommended(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}

	spots, err := h.spotService.Recommended(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(spots)
}

func (h *SpotHandler) MostVisited(c *fiber.Ctx) error {
	spots, err := h.spotService.MostVisited(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(spots)
}

func (h *SpotHandler) ImageUploadURL(c *fiber.Ctx) error {
	var request ImageUploadRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	objectKey := "tourist-spots/" + uuid.NewString() + "." + imageExtensions[request.ContentType]

	uploadURL, err := h.presigner.GeneratePresignedUploadURL(c.UserContext(), objectKey, request.ContentType)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"image_url":  h.presigner.PublicURL(objectKey),
		"object_key": objectKey,
	})
}
