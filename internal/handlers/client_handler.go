package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/internal/models"
)

type clientApplicationService interface {
	LinkClient(ctx context.Context, coachID int64, role string, userID int64) (*models.Client, error)
	UnlinkClient(ctx context.Context, coachID int64, role string, userID int64) error
	ListClients(ctx context.Context, coachID int64, role string) ([]models.ClientDetail, error)
}

type ClientHandler struct {
	service clientApplicationService
}

func NewClientHandler(service clientApplicationService) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) LinkClient(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	client, err := h.service.LinkClient(c.Context(), userID, actorRole(c), req.UserID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clients, err := h.service.ListClients(c.Context(), userID, actorRole(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"clients": clients})
}

func (h *ClientHandler) UnlinkClient(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	if err := h.service.UnlinkClient(c.Context(), userID, actorRole(c), clientID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
