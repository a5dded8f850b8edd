package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type TokenHandler struct {
	s service.TokenService
}

func NewTokenHandler(service service.TokenService) *TokenHandler {
	return &TokenHandler{s: service}
}

func (h *TokenHandler) CreateToken(c *fiber.Ctx) error {
	var req transfer.TokenCreation
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	account, err := h.s.Create(c.Context(), GetUserID(c), &req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *TokenHandler) ListTokens(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *TokenHandler) ActivateToken(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *TokenHandler) DeactivateToken(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *TokenHandler) setActive(c *fiber.Ctx, active bool) error {
	accountID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.SetActive(c.Context(), accountID, GetUserID(c), active); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TokenHandler) RemoveToken(c *fiber.Ctx) error {
	accountID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.Remove(c.Context(), accountID, GetUserID(c)); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
