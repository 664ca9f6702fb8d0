package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

const internalErrorMessage = "internal server error"

// writeError renders err as {"error": ...}. Only *service.Error messages reach
// the client; anything else is logged and replaced with a fixed message.
func writeError(c *fiber.Ctx, err error) error {
	if e, ok := service.AsError(err); ok {
		return c.Status(e.HTTPStatus()).JSON(fiber.Map{"error": e.Message})
	}

	slog.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalErrorMessage})
}

func invalidInput(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
}

func cannotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
}

// ErrorHandler keeps unmatched routes, framework errors and recovered panics
// in the same JSON shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}
