package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"roamers-service/internal/service"
)

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ValidationError("invalid " + name)
	}
	return id, nil
}
