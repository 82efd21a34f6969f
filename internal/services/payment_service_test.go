package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type stubPaymentRepo struct {
	payments map[int64]*models.Payment
	nextID   int64
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[int64]*models.Payment)}
}

func (s *stubPaymentRepo) Create(_ context.Context, input repository.CreatePaymentInput) (*models.Payment, error) {
	s.nextID++
	payment := &models.Payment{
		ID:          s.nextID,
		CoachID:     input.CoachID,
		ClientID:    input.ClientID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Status:      input.Status,
		ProviderRef: input.ProviderRef,
	}
	s.payments[payment.ID] = payment
	return payment, nil
}

func (s *stubPaymentRepo) GetByID(_ context.Context, paymentID int64) (*models.Payment, error) {
	payment, ok := s.payments[paymentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return payment, nil
}

func (s *stubPaymentRepo) ListByCoach(_ context.Context, coachID int64) ([]models.Payment, error) {
	var payments []models.Payment
	for _, payment := range s.payments {
		if payment.CoachID == coachID {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

func (s *stubPaymentRepo) UpdateStatus(_ context.Context, paymentID int64, status string) (*models.Payment, error) {
	payment, ok := s.payments[paymentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	payment.Status = status
	return payment, nil
}

type stubProvider struct {
	ref   string
	err   error
	calls int
}

func (s *stubProvider) Charge(_ context.Context, _ float64, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

func newPaymentFixture(provider PaymentProvider) (*PaymentService, *stubPaymentRepo) {
	repo := newStubPaymentRepo()
	roster := &stubRoster{linked: map[[2]int64]bool{{1, 2}: true}}
	return NewPaymentService(repo, roster, provider), repo
}

func TestChargeClientRecordsPayment(t *testing.T) {
	provider := &stubProvider{ref: "ch_123"}
	service, _ := newPaymentFixture(provider)

	payment, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{
		ClientID: 2,
		Amount:   49.99,
		Currency: " EUR ",
	})
	if err != nil {
		t.Fatalf("ChargeClient: %v", err)
	}
	if payment.Status != "paid" {
		t.Fatalf("expected status paid, got %q", payment.Status)
	}
	if payment.Currency != "eur" {
		t.Fatalf("expected normalized currency, got %q", payment.Currency)
	}
	if payment.ProviderRef == nil || *payment.ProviderRef != "ch_123" {
		t.Fatal("expected provider reference recorded")
	}
	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}
}

func TestChargeClientDefaultsCurrency(t *testing.T) {
	service, _ := newPaymentFixture(&stubProvider{ref: "ch_1"})

	payment, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{
		ClientID: 2,
		Amount:   10,
	})
	if err != nil {
		t.Fatalf("ChargeClient: %v", err)
	}
	if payment.Currency != "usd" {
		t.Fatalf("expected usd default, got %q", payment.Currency)
	}
}

func TestChargeClientWithoutProvider(t *testing.T) {
	service, _ := newPaymentFixture(nil)

	_, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{ClientID: 2, Amount: 10})
	if !errors.Is(err, ErrPaymentsUnavailable) {
		t.Fatalf("expected ErrPaymentsUnavailable, got %v", err)
	}
}

func TestChargeClientRequiresLinkedClient(t *testing.T) {
	provider := &stubProvider{ref: "ch_1"}
	service, repo := newPaymentFixture(provider)

	_, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{ClientID: 9, Amount: 10})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatal("expected provider untouched for unlinked client")
	}
	if len(repo.payments) != 0 {
		t.Fatal("expected no payment recorded")
	}
}

func TestChargeClientProviderFailureRecordsNothing(t *testing.T) {
	provider := &stubProvider{err: errors.New("card declined")}
	service, repo := newPaymentFixture(provider)

	_, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{ClientID: 2, Amount: 10})
	if err == nil {
		t.Fatal("expected provider error to surface")
	}
	if len(repo.payments) != 0 {
		t.Fatal("expected no payment recorded on provider failure")
	}
}

func TestRefundPayment(t *testing.T) {
	service, _ := newPaymentFixture(&stubProvider{ref: "ch_1"})

	payment, err := service.ChargeClient(context.Background(), 1, "coach", ChargeClientInput{ClientID: 2, Amount: 10})
	if err != nil {
		t.Fatalf("ChargeClient: %v", err)
	}

	refunded, err := service.RefundPayment(context.Background(), 1, "coach", payment.ID)
	if err != nil {
		t.Fatalf("RefundPayment: %v", err)
	}
	if refunded.Status != "refunded" {
		t.Fatalf("expected refunded, got %q", refunded.Status)
	}

	if _, err := service.RefundPayment(context.Background(), 1, "coach", payment.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for double refund, got %v", err)
	}
}

func TestGetPaymentOwnership(t *testing.T) {
	service, repo := newPaymentFixture(&stubProvider{ref: "ch_1"})
	repo.payments[50] = &models.Payment{ID: 50, CoachID: 9, Status: "paid"}

	if _, err := service.GetPayment(context.Background(), 1, "coach", 50); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for foreign payment, got %v", err)
	}
	if _, err := service.GetPayment(context.Background(), 1, "coach", 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetPayment(context.Background(), 1, "client", 50); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-coach, got %v", err)
	}
}
