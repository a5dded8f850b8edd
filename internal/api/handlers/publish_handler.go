package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(service service.PublishService) *PublishHandler {
	return &PublishHandler{s: service}
}

// PublishPosts runs one scheduler tick on behalf of an external cron.
func (h *PublishHandler) PublishPosts(c *fiber.Ctx) error {
	summary, err := h.s.PublishDue(c.Context())
	if err != nil {
		slog.Error("cron publish failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(transfer.CronResponse{
			Success:   false,
			Message:   "Failed to process scheduled posts",
			Timestamp: time.Now().UTC(),
		})
	}

	message := "Scheduled posts processed successfully"
	if summary.Busy {
		message = "A publishing run is already in progress"
	}

	return c.Status(fiber.StatusOK).JSON(transfer.CronResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Summary:   summary,
	})
}
