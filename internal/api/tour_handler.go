package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

type TourHandler struct {
	tourService service.TourService
	validate    *validator.Validate
}

func NewTourHandler(tourService service.TourService) *TourHandler {
	return &TourHandler{tourService: tourService, validate: validator.New()}
}

type CreateTourRequest struct {
	PlaceID       FlexInt64    `json:"placeId" validate:"required,gt=0"`
	TourDate      string       `json:"tourDate" validate:"required"`
	CostPerPerson *FlexFloat64 `json:"costPerPerson" validate:"required,gte=0,lte=99999999.99"`
}

type UpdateTourRequest struct {
	PlaceID       *FlexInt64   `json:"placeId" validate:"omitempty,gt=0"`
	TourDate      *string      `json:"tourDate" validate:"omitempty,min=1"`
	CostPerPerson *FlexFloat64 `json:"costPerPerson" validate:"omitempty,gte=0,lte=99999999.99"`
}

func (h *TourHandler) CreateTour(c *fiber.Ctx) error {
	var request CreateTourRequest

	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}

	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	date, err := service.ParseTourDate(request.TourDate)
	if err != nil {
		return writeError(c, err)
	}

	tour, err := h.tourService.CreateTour(c.UserContext(), service.CreateTourInput{
		PlaceID:       int64(request.PlaceID),
		TourDate:      date,
		CostPerPerson: float64(*request.CostPerPerson),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tour)
}

func (h *TourHandler) UpdateTour(c *fiber.Ctx) error {
	tourID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var request UpdateTourRequest
	if err := c.BodyParser(&request); err != nil {
		return cannotParse(c)
	}
	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	input := service.UpdateTourInput{PlaceID: int64Ptr(request.PlaceID), CostPerPerson: float64Ptr(request.CostPerPerson)}
	if request.TourDate != nil {
		var date time.Time
		if date, err = service.ParseTourDate(*request.TourDate); err != nil {
			return writeError(c, err)
		}
		input.TourDate = &date
	}

	tour, err := h.tourService.UpdateTour(c.UserContext(), tourID, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "tour updated", "tour": tour})
}

func (h *TourHandler) DeleteTour(c *fiber.Ctx) error {
	tourID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.tourService.DeleteTour(c.UserContext(), tourID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "tour deleted"})
}

func (h *TourHandler) ListTours(c *fiber.Ctx) error {
	tours, err := h.tourService.ListTours(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tours)
}

func (h *TourHandler) JoinTour(c *fiber.Ctx) error {
	tourID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	tour, err := h.tourService.JoinTour(c.UserContext(), tourID, CurrentUser(c))
	if err != nil {
		tourJoinsTotal.WithLabelValues("rejected").Inc()
		return writeError(c, err)
	}
	tourJoinsTotal.WithLabelValues("joined").Inc()

	return c.JSON(fiber.Map{"message": "successfully joined the tour", "tour": tour})
}

func (h *TourHandler) ListParticipants(c *fiber.Ctx) error {
	tourID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	participants, err := h.tourService.ListParticipants(c.UserContext(), tourID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(participants)
}
