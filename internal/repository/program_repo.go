package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type CreateProgramInput struct {
	CoachID     int64
	Title       string
	Description *string
	TotalSteps  int
}

type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

func (r *ProgramRepository) Create(ctx context.Context, input CreateProgramInput) (*models.Program, error) {
	query := `
		INSERT INTO programs (coach_id, title, description, total_steps)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coach_id, title, description, total_steps, created_at
	`

	var program models.Program
	err := r.db.QueryRow(ctx, query, input.CoachID, input.Title, input.Description, input.TotalSteps).Scan(
		&program.ID,
		&program.CoachID,
		&program.Title,
		&program.Description,
		&program.TotalSteps,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, programID int64) (*models.Program, error) {
	query := `
		SELECT id, coach_id, title, description, total_steps, created_at
		FROM programs
		WHERE id = $1
	`

	var program models.Program
	err := r.db.QueryRow(ctx, query, programID).Scan(
		&program.ID,
		&program.CoachID,
		&program.Title,
		&program.Description,
		&program.TotalSteps,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Program, error) {
	query := `
		SELECT id, coach_id, title, description, total_steps, created_at
		FROM programs
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(
			&program.ID,
			&program.CoachID,
			&program.Title,
			&program.Description,
			&program.TotalSteps,
			&program.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	return programs, rows.Err()
}

// Enroll creates the enrollment if absent; re-enrolling keeps existing
// progress.
func (r *ProgramRepository) Enroll(ctx context.Context, programID, clientID int64) (*models.Enrollment, error) {
	query := `
		INSERT INTO program_enrollments (program_id, client_id, completed_steps)
		VALUES ($1, $2, 0)
		ON CONFLICT (program_id, client_id)
		DO UPDATE SET updated_at = program_enrollments.updated_at
		RETURNING id, program_id, client_id, completed_steps, created_at, updated_at
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, programID, clientID).Scan(
		&enrollment.ID,
		&enrollment.ProgramID,
		&enrollment.ClientID,
		&enrollment.CompletedSteps,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *ProgramRepository) GetEnrollment(ctx context.Context, programID, clientID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, program_id, client_id, completed_steps, created_at, updated_at
		FROM program_enrollments
		WHERE program_id = $1 AND client_id = $2
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, programID, clientID).Scan(
		&enrollment.ID,
		&enrollment.ProgramID,
		&enrollment.ClientID,
		&enrollment.CompletedSteps,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *ProgramRepository) UpdateProgress(
	ctx context.Context,
	programID int64,
	clientID int64,
	completedSteps int,
) (*models.Enrollment, error) {
	query := `
		UPDATE program_enrollments
		SET completed_steps = $3, updated_at = NOW()
		WHERE program_id = $1 AND client_id = $2
		RETURNING id, program_id, client_id, completed_steps, created_at, updated_at
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, programID, clientID, completedSteps).Scan(
		&enrollment.ID,
		&enrollment.ProgramID,
		&enrollment.ClientID,
		&enrollment.CompletedSteps,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *ProgramRepository) ListEnrollments(ctx context.Context, programID int64) ([]models.Enrollment, error) {
	query := `
		SELECT id, program_id, client_id, completed_steps, created_at, updated_at
		FROM program_enrollments
		WHERE program_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.ProgramID,
			&enrollment.ClientID,
			&enrollment.CompletedSteps,
			&enrollment.CreatedAt,
			&enrollment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, rows.Err()
}
