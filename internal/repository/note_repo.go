package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type CreateNoteInput struct {
	CoachID  int64
	ClientID int64
	Title    string
	Body     string
}

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, input CreateNoteInput) (*models.Note, error) {
	query := `
		INSERT INTO notes (coach_id, client_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coach_id, client_id, title, body, created_at, updated_at
	`

	var note models.Note
	err := r.db.QueryRow(ctx, query, input.CoachID, input.ClientID, input.Title, input.Body).Scan(
		&note.ID,
		&note.CoachID,
		&note.ClientID,
		&note.Title,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID int64) (*models.Note, error) {
	query := `
		SELECT id, coach_id, client_id, title, body, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	var note models.Note
	err := r.db.QueryRow(ctx, query, noteID).Scan(
		&note.ID,
		&note.CoachID,
		&note.ClientID,
		&note.Title,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) ListByClient(ctx context.Context, coachID, clientID int64) ([]models.Note, error) {
	query := `
		SELECT id, coach_id, client_id, title, body, created_at, updated_at
		FROM notes
		WHERE coach_id = $1 AND client_id = $2
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, coachID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID,
			&note.CoachID,
			&note.ClientID,
			&note.Title,
			&note.Body,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

func (r *NoteRepository) Update(ctx context.Context, noteID int64, title, body string) (*models.Note, error) {
	query := `
		UPDATE notes
		SET title = $2, body = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, coach_id, client_id, title, body, created_at, updated_at
	`

	var note models.Note
	err := r.db.QueryRow(ctx, query, noteID, title, body).Scan(
		&note.ID,
		&note.CoachID,
		&note.ClientID,
		&note.Title,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	return err
}
