package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/queue"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PostHandler struct {
	s service.PostService
	q queue.Enqueuer
}

// NewPostHandler builds the post routes. q may be nil, in which case posts
// are only picked up by the scheduler tick.
func NewPostHandler(service service.PostService, q queue.Enqueuer) *PostHandler {
	return &PostHandler{s: service, q: q}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PostCreation
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.CreatePost(c.Context(), userID, &req)
	if err != nil {
		return errorResponse(c, err)
	}
	h.enqueue(c, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID, models.PostFilter{
		Status:   c.Query("status"),
		Platform: c.Query("platform"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.PostInfo(c.Context(), postID, GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req transfer.PostCreation
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Update(c.Context(), postID, GetUserID(c), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	h.enqueue(c, post)

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ReschedulePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req transfer.Reschedule
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Reschedule(c.Context(), postID, GetUserID(c), req.ScheduledTime)
	if err != nil {
		return errorResponse(c, err)
	}
	h.enqueue(c, post)

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.Remove(c.Context(), postID, GetUserID(c)); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) PostHistory(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	history, err := h.s.History(c.Context(), postID, GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *PostHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.s.Stats(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// enqueue schedules an exact-time wake-up. Failure is not fatal because the
// scheduler tick picks the post up anyway.
func (h *PostHandler) enqueue(c *fiber.Ctx, post *models.Post) {
	if h.q == nil || post == nil {
		return
	}
	if err := h.q.EnqueuePost(c.Context(), post.ID, post.ScheduledTime); err != nil {
		slog.Warn("unable to enqueue publish task", "post_id", post.ID, "error", err)
	}
}
