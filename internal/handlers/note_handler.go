package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/internal/models"
)

type noteApplicationService interface {
	CreateNote(ctx context.Context, coachID int64, role string, clientID int64, title, body string) (*models.Note, error)
	ListNotes(ctx context.Context, coachID int64, role string, clientID int64) ([]models.Note, error)
	UpdateNote(ctx context.Context, coachID int64, role string, noteID int64, title, body string) (*models.Note, error)
	DeleteNote(ctx context.Context, coachID int64, role string, noteID int64) error
}

type NoteHandler struct {
	service noteApplicationService
}

func NewNoteHandler(service noteApplicationService) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) CreateNote(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		ClientID int64  `json:"client_id"`
		Title    string `json:"title"`
		Body     string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	note, err := h.service.CreateNote(c.Context(), userID, actorRole(c), req.ClientID, req.Title, req.Body)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": note})
}

func (h *NoteHandler) ListNotes(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clientID := int64(parsePositiveInt(c.Query("client_id"), 0))
	notes, err := h.service.ListNotes(c.Context(), userID, actorRole(c), clientID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"notes": notes})
}

func (h *NoteHandler) UpdateNote(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid note id"})
	}

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	note, err := h.service.UpdateNote(c.Context(), userID, actorRole(c), noteID, req.Title, req.Body)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"note": note})
}

func (h *NoteHandler) DeleteNote(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid note id"})
	}

	if err := h.service.DeleteNote(c.Context(), userID, actorRole(c), noteID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
