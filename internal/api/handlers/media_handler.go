package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	if file.Size > service.MaxImageSize {
		return badRequest(c, "File is too large")
	}

	f, err := file.Open()
	if err != nil {
		return badRequest(c, "Unable to read file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageSize+1))
	if err != nil {
		return badRequest(c, "Unable to read file")
	}

	url, err := h.s.UploadImage(c.Context(), GetUserID(c), data)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
