package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type ClientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

// Link attaches a client to a coach's roster; relinking an archived client
// reactivates the existing row.
func (r *ClientRepository) Link(ctx context.Context, coachID, userID int64) (*models.Client, error) {
	query := `
		INSERT INTO clients (coach_id, user_id, status)
		VALUES ($1, $2, 'active')
		ON CONFLICT (coach_id, user_id)
		DO UPDATE SET status = 'active'
		RETURNING id, coach_id, user_id, status, created_at
	`

	var client models.Client
	err := r.db.QueryRow(ctx, query, coachID, userID).Scan(
		&client.ID,
		&client.CoachID,
		&client.UserID,
		&client.Status,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Unlink(ctx context.Context, coachID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE clients
		SET status = 'archived'
		WHERE coach_id = $1 AND user_id = $2
	`, coachID, userID)
	return err
}

func (r *ClientRepository) IsLinked(ctx context.Context, coachID, userID int64) (bool, error) {
	var linked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM clients
			WHERE coach_id = $1 AND user_id = $2 AND status = 'active'
		)
	`, coachID, userID).Scan(&linked)
	return linked, err
}

func (r *ClientRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.ClientDetail, error) {
	query := `
		SELECT c.id, c.coach_id, c.user_id, c.status, c.created_at, u.email, u.name
		FROM clients c
		JOIN users u ON u.id = c.user_id
		WHERE c.coach_id = $1 AND c.status = 'active'
		ORDER BY u.name, c.id
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]models.ClientDetail, 0)
	for rows.Next() {
		var client models.ClientDetail
		if err := rows.Scan(
			&client.ID,
			&client.CoachID,
			&client.UserID,
			&client.Status,
			&client.CreatedAt,
			&client.Email,
			&client.Name,
		); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}
