package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

var ErrPaymentsUnavailable = errors.New("payment provider is not configured")

// PaymentProvider is the narrow boundary to the external payment processor.
type PaymentProvider interface {
	Charge(ctx context.Context, amount float64, currency, description string) (providerRef string, err error)
}

type paymentStore interface {
	Create(ctx context.Context, input repository.CreatePaymentInput) (*models.Payment, error)
	GetByID(ctx context.Context, paymentID int64) (*models.Payment, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, paymentID int64, status string) (*models.Payment, error)
}

type PaymentService struct {
	paymentRepo paymentStore
	clientRepo  rosterReader
	provider    PaymentProvider
}

type ChargeClientInput struct {
	ClientID    int64
	Amount      float64
	Currency    string
	Description string
}

func NewPaymentService(
	paymentRepo paymentStore,
	clientRepo rosterReader,
	provider PaymentProvider,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		provider:    provider,
	}
}

// ChargeClient runs a charge through the provider and records the result.
func (s *PaymentService) ChargeClient(
	ctx context.Context,
	coachID int64,
	role string,
	input ChargeClientInput,
) (*models.Payment, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if s.provider == nil {
		return nil, ErrPaymentsUnavailable
	}
	if input.ClientID <= 0 || input.Amount <= 0 {
		return nil, ErrInvalidInput
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "usd"
	}

	linked, err := s.clientRepo.IsLinked(ctx, coachID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrInvalidInput
	}

	providerRef, err := s.provider.Charge(ctx, input.Amount, currency, strings.TrimSpace(input.Description))
	if err != nil {
		return nil, err
	}

	return s.paymentRepo.Create(ctx, repository.CreatePaymentInput{
		CoachID:     coachID,
		ClientID:    input.ClientID,
		Amount:      input.Amount,
		Currency:    currency,
		Status:      "paid",
		ProviderRef: &providerRef,
	})
}

func (s *PaymentService) GetPayment(
	ctx context.Context,
	coachID int64,
	role string,
	paymentID int64,
) (*models.Payment, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if paymentID <= 0 {
		return nil, ErrInvalidInput
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if payment.CoachID != coachID {
		return nil, ErrNotAuthorized
	}
	return payment, nil
}

func (s *PaymentService) ListPayments(
	ctx context.Context,
	coachID int64,
	role string,
) ([]models.Payment, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	return s.paymentRepo.ListByCoach(ctx, coachID)
}

// RefundPayment marks a coach-owned payment refunded with the provider and
// in the ledger.
func (s *PaymentService) RefundPayment(
	ctx context.Context,
	coachID int64,
	role string,
	paymentID int64,
) (*models.Payment, error) {
	payment, err := s.GetPayment(ctx, coachID, role, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != "paid" {
		return nil, ErrInvalidInput
	}

	return s.paymentRepo.UpdateStatus(ctx, paymentID, "refunded")
}
