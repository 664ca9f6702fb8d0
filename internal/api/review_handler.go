package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	validate      *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validate: validator.New()}
}

type CreateReviewRequest struct {
	SpotID  int64  `json:"spotId" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	spotID, err := paramID(c, "spotId")
	if err != nil {
		return writeError(c, err)
	}

	reviews, err := h.reviewService.ListReviews(c.UserContext(), spotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var request CreateReviewRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	review, err := h.reviewService.CreateReview(c.UserContext(), CurrentUser(c).ID, request.SpotID, request.Rating, request.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var request UpdateReviewRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	review, err := h.reviewService.UpdateReview(c.UserContext(), CurrentUser(c).ID, reviewID, request.Rating, request.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "review updated", "review": review})
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.reviewService.DeleteReview(c.UserContext(), CurrentUser(c).ID, reviewID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "review deleted"})
}
