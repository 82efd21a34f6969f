package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type CreatePaymentInput struct {
	CoachID     int64
	ClientID    int64
	Amount      float64
	Currency    string
	Status      string
	ProviderRef *string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		INSERT INTO payments (coach_id, client_id, amount, currency, status, provider_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, coach_id, client_id, amount, currency, status, provider_ref, created_at
	`

	var payment models.Payment
	err := r.db.QueryRow(
		ctx, query,
		input.CoachID, input.ClientID, input.Amount, input.Currency, input.Status, input.ProviderRef,
	).Scan(
		&payment.ID,
		&payment.CoachID,
		&payment.ClientID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ProviderRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID int64) (*models.Payment, error) {
	query := `
		SELECT id, coach_id, client_id, amount, currency, status, provider_ref, created_at
		FROM payments
		WHERE id = $1
	`

	var payment models.Payment
	err := r.db.QueryRow(ctx, query, paymentID).Scan(
		&payment.ID,
		&payment.CoachID,
		&payment.ClientID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ProviderRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Payment, error) {
	query := `
		SELECT id, coach_id, client_id, amount, currency, status, provider_ref, created_at
		FROM payments
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.CoachID,
			&payment.ClientID,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.ProviderRef,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID int64, status string) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2
		WHERE id = $1
		RETURNING id, coach_id, client_id, amount, currency, status, provider_ref, created_at
	`

	var payment models.Payment
	err := r.db.QueryRow(ctx, query, paymentID, status).Scan(
		&payment.ID,
		&payment.CoachID,
		&payment.ClientID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ProviderRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
