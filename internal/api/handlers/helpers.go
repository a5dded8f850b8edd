package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, err interface{}) error {
	if e, ok := err.(error); ok {
		err = e.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err})
}

// errorResponse maps service errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without details.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCredentialNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrPostLocked):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrUnknownPlatform), errors.Is(err, service.ErrUnsupportedMedia):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrMediaNotConfigured):
		status = fiber.StatusServiceUnavailable
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
