package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type programStore interface {
	Create(ctx context.Context, input repository.CreateProgramInput) (*models.Program, error)
	GetByID(ctx context.Context, programID int64) (*models.Program, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.Program, error)
	Enroll(ctx context.Context, programID, clientID int64) (*models.Enrollment, error)
	GetEnrollment(ctx context.Context, programID, clientID int64) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, programID, clientID int64, completedSteps int) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, programID int64) ([]models.Enrollment, error)
}

type ProgramService struct {
	programRepo programStore
	clientRepo  rosterReader
}

func NewProgramService(programRepo programStore, clientRepo rosterReader) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
		clientRepo:  clientRepo,
	}
}

func (s *ProgramService) CreateProgram(
	ctx context.Context,
	coachID int64,
	role string,
	title string,
	description *string,
	totalSteps int,
) (*models.Program, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}

	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" || totalSteps <= 0 {
		return nil, ErrInvalidInput
	}

	var trimmedDescription *string
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed != "" {
			trimmedDescription = &trimmed
		}
	}

	return s.programRepo.Create(ctx, repository.CreateProgramInput{
		CoachID:     coachID,
		Title:       trimmedTitle,
		Description: trimmedDescription,
		TotalSteps:  totalSteps,
	})
}

func (s *ProgramService) ListPrograms(
	ctx context.Context,
	coachID int64,
	role string,
) ([]models.Program, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	return s.programRepo.ListByCoach(ctx, coachID)
}

// EnrollClient enrolls an active client into the coach's program; repeating
// the call keeps the existing enrollment and its progress.
func (s *ProgramService) EnrollClient(
	ctx context.Context,
	coachID int64,
	role string,
	programID int64,
	clientID int64,
) (*models.EnrollmentProgress, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if programID <= 0 || clientID <= 0 {
		return nil, ErrInvalidInput
	}

	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	linked, err := s.clientRepo.IsLinked(ctx, coachID, clientID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrInvalidInput
	}

	enrollment, err := s.programRepo.Enroll(ctx, programID, clientID)
	if err != nil {
		return nil, err
	}

	return withProgress(enrollment, program.TotalSteps), nil
}

// UpdateProgress sets a client's completed step count, clamped to the
// program's step range.
func (s *ProgramService) UpdateProgress(
	ctx context.Context,
	coachID int64,
	role string,
	programID int64,
	clientID int64,
	completedSteps int,
) (*models.EnrollmentProgress, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if programID <= 0 || clientID <= 0 || completedSteps < 0 {
		return nil, ErrInvalidInput
	}

	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	if completedSteps > program.TotalSteps {
		completedSteps = program.TotalSteps
	}

	enrollment, err := s.programRepo.UpdateProgress(ctx, programID, clientID, completedSteps)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return withProgress(enrollment, program.TotalSteps), nil
}

func (s *ProgramService) ListEnrollments(
	ctx context.Context,
	coachID int64,
	role string,
	programID int64,
) ([]models.EnrollmentProgress, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if programID <= 0 {
		return nil, ErrInvalidInput
	}

	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.programRepo.ListEnrollments(ctx, programID)
	if err != nil {
		return nil, err
	}

	progress := make([]models.EnrollmentProgress, 0, len(enrollments))
	for i := range enrollments {
		progress = append(progress, *withProgress(&enrollments[i], program.TotalSteps))
	}
	return progress, nil
}

func (s *ProgramService) ownedProgram(ctx context.Context, coachID, programID int64) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrNotAuthorized
	}
	return program, nil
}

// ProgressPercent converts completed/total steps into a whole percentage,
// clamped to [0, 100].
func ProgressPercent(completedSteps, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	if completedSteps <= 0 {
		return 0
	}
	if completedSteps >= totalSteps {
		return 100
	}
	return int(math.Round(float64(completedSteps) / float64(totalSteps) * 100))
}

func withProgress(enrollment *models.Enrollment, totalSteps int) *models.EnrollmentProgress {
	return &models.EnrollmentProgress{
		Enrollment:      *enrollment,
		ProgressPercent: ProgressPercent(enrollment.CompletedSteps, totalSteps),
	}
}
