package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/services"
)

type paymentApplicationService interface {
	ChargeClient(ctx context.Context, coachID int64, role string, input services.ChargeClientInput) (*models.Payment, error)
	GetPayment(ctx context.Context, coachID int64, role string, paymentID int64) (*models.Payment, error)
	ListPayments(ctx context.Context, coachID int64, role string) ([]models.Payment, error)
	RefundPayment(ctx context.Context, coachID int64, role string, paymentID int64) (*models.Payment, error)
}

type PaymentHandler struct {
	service paymentApplicationService
}

func NewPaymentHandler(service paymentApplicationService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) ChargeClient(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		ClientID    int64   `json:"client_id"`
		Amount      float64 `json:"amount"`
		Currency    string  `json:"currency"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	payment, err := h.service.ChargeClient(c.Context(), userID, actorRole(c), services.ChargeClientInput{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	payments, err := h.service.ListPayments(c.Context(), userID, actorRole(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	payment, err := h.service.GetPayment(c.Context(), userID, actorRole(c), paymentID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) RefundPayment(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	payment, err := h.service.RefundPayment(c.Context(), userID, actorRole(c), paymentID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}
