package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/internal/models"
)

type programApplicationService interface {
	CreateProgram(ctx context.Context, coachID int64, role, title string, description *string, totalSteps int) (*models.Program, error)
	ListPrograms(ctx context.Context, coachID int64, role string) ([]models.Program, error)
	EnrollClient(ctx context.Context, coachID int64, role string, programID, clientID int64) (*models.EnrollmentProgress, error)
	UpdateProgress(ctx context.Context, coachID int64, role string, programID, clientID int64, completedSteps int) (*models.EnrollmentProgress, error)
	ListEnrollments(ctx context.Context, coachID int64, role string, programID int64) ([]models.EnrollmentProgress, error)
}

type ProgramHandler struct {
	service programApplicationService
}

func NewProgramHandler(service programApplicationService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		TotalSteps  int     `json:"total_steps"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	program, err := h.service.CreateProgram(c.Context(), userID, actorRole(c), req.Title, req.Description, req.TotalSteps)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"program": program})
}

func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	programs, err := h.service.ListPrograms(c.Context(), userID, actorRole(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"programs": programs})
}

func (h *ProgramHandler) EnrollClient(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	programID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	var req struct {
		ClientID int64 `json:"client_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, err := h.service.EnrollClient(c.Context(), userID, actorRole(c), programID, req.ClientID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"enrollment": enrollment})
}

func (h *ProgramHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	programID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	var req struct {
		ClientID       int64 `json:"client_id"`
		CompletedSteps int   `json:"completed_steps"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, err := h.service.UpdateProgress(c.Context(), userID, actorRole(c), programID, req.ClientID, req.CompletedSteps)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"enrollment": enrollment})
}

func (h *ProgramHandler) ListEnrollments(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	programID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	enrollments, err := h.service.ListEnrollments(c.Context(), userID, actorRole(c), programID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"enrollments": enrollments})
}
