package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/internal/models"
)

type groupApplicationService interface {
	CreateGroup(ctx context.Context, coachID int64, role, name string, description *string) (*models.Group, error)
	GetGroup(ctx context.Context, actorID, groupID int64) (*models.Group, error)
	ListGroups(ctx context.Context, coachID int64, role string) ([]models.GroupDetail, error)
	AddMember(ctx context.Context, coachID int64, role string, groupID, userID int64) error
	RemoveMember(ctx context.Context, coachID int64, role string, groupID, userID int64) error
	ListMembers(ctx context.Context, actorID, groupID int64) ([]models.GroupMember, error)
}

type GroupHandler struct {
	service groupApplicationService
}

func NewGroupHandler(service groupApplicationService) *GroupHandler {
	return &GroupHandler{service: service}
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	group, err := h.service.CreateGroup(c.Context(), userID, actorRole(c), req.Name, req.Description)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	groups, err := h.service.ListGroups(c.Context(), userID, actorRole(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	group, err := h.service.GetGroup(c.Context(), userID, groupID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) ListMembers(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	members, err := h.service.ListMembers(c.Context(), userID, groupID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"members": members})
}

func (h *GroupHandler) AddMember(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.AddMember(c.Context(), userID, actorRole(c), groupID, req.UserID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	memberID, err := parseIDParam(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member id"})
	}

	if err := h.service.RemoveMember(c.Context(), userID, actorRole(c), groupID, memberID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
