package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type enrollKey struct {
	programID int64
	clientID  int64
}

type stubProgramRepo struct {
	programs    map[int64]*models.Program
	enrollments map[enrollKey]*models.Enrollment
	nextID      int64
}

func newStubProgramRepo() *stubProgramRepo {
	return &stubProgramRepo{
		programs:    make(map[int64]*models.Program),
		enrollments: make(map[enrollKey]*models.Enrollment),
	}
}

func (s *stubProgramRepo) Create(_ context.Context, input repository.CreateProgramInput) (*models.Program, error) {
	s.nextID++
	program := &models.Program{
		ID:          s.nextID,
		CoachID:     input.CoachID,
		Title:       input.Title,
		Description: input.Description,
		TotalSteps:  input.TotalSteps,
	}
	s.programs[program.ID] = program
	return program, nil
}

func (s *stubProgramRepo) GetByID(_ context.Context, programID int64) (*models.Program, error) {
	program, ok := s.programs[programID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return program, nil
}

func (s *stubProgramRepo) ListByCoach(_ context.Context, coachID int64) ([]models.Program, error) {
	var programs []models.Program
	for _, program := range s.programs {
		if program.CoachID == coachID {
			programs = append(programs, *program)
		}
	}
	return programs, nil
}

func (s *stubProgramRepo) Enroll(_ context.Context, programID, clientID int64) (*models.Enrollment, error) {
	key := enrollKey{programID: programID, clientID: clientID}
	if enrollment, ok := s.enrollments[key]; ok {
		return enrollment, nil
	}
	s.nextID++
	enrollment := &models.Enrollment{ID: s.nextID, ProgramID: programID, ClientID: clientID}
	s.enrollments[key] = enrollment
	return enrollment, nil
}

func (s *stubProgramRepo) GetEnrollment(_ context.Context, programID, clientID int64) (*models.Enrollment, error) {
	enrollment, ok := s.enrollments[enrollKey{programID: programID, clientID: clientID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return enrollment, nil
}

func (s *stubProgramRepo) UpdateProgress(_ context.Context, programID, clientID int64, completedSteps int) (*models.Enrollment, error) {
	enrollment, ok := s.enrollments[enrollKey{programID: programID, clientID: clientID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	enrollment.CompletedSteps = completedSteps
	return enrollment, nil
}

func (s *stubProgramRepo) ListEnrollments(_ context.Context, programID int64) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	for _, enrollment := range s.enrollments {
		if enrollment.ProgramID == programID {
			enrollments = append(enrollments, *enrollment)
		}
	}
	return enrollments, nil
}

type stubRoster struct {
	linked map[[2]int64]bool
}

func (s *stubRoster) IsLinked(_ context.Context, coachID, userID int64) (bool, error) {
	return s.linked[[2]int64{coachID, userID}], nil
}

func newProgramFixture() (*ProgramService, *stubProgramRepo, *stubRoster) {
	repo := newStubProgramRepo()
	roster := &stubRoster{linked: map[[2]int64]bool{{1, 2}: true}}
	return NewProgramService(repo, roster), repo, roster
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"zero total", 3, 0, 0},
		{"negative total", 3, -1, 0},
		{"zero completed", 0, 10, 0},
		{"negative completed", -2, 10, 0},
		{"complete", 10, 10, 100},
		{"over-complete clamps", 12, 10, 100},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half", 5, 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressPercent(tt.completed, tt.total); got != tt.want {
				t.Fatalf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestCreateProgramValidation(t *testing.T) {
	service, _, _ := newProgramFixture()

	if _, err := service.CreateProgram(context.Background(), 1, "client", "Plan", nil, 5); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-coach, got %v", err)
	}
	if _, err := service.CreateProgram(context.Background(), 1, "coach", "  ", nil, 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}
	if _, err := service.CreateProgram(context.Background(), 1, "coach", "Plan", nil, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero steps, got %v", err)
	}

	program, err := service.CreateProgram(context.Background(), 1, "coach", " Plan ", nil, 5)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if program.Title != "Plan" {
		t.Fatalf("expected trimmed title, got %q", program.Title)
	}
}

func TestEnrollClientIsIdempotent(t *testing.T) {
	service, _, _ := newProgramFixture()

	program, err := service.CreateProgram(context.Background(), 1, "coach", "Plan", nil, 4)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	first, err := service.EnrollClient(context.Background(), 1, "coach", program.ID, 2)
	if err != nil {
		t.Fatalf("EnrollClient: %v", err)
	}

	if _, err := service.UpdateProgress(context.Background(), 1, "coach", program.ID, 2, 2); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	// Re-enrolling keeps the existing row and its progress.
	second, err := service.EnrollClient(context.Background(), 1, "coach", program.ID, 2)
	if err != nil {
		t.Fatalf("EnrollClient (repeat): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same enrollment, got ids %d and %d", first.ID, second.ID)
	}
	if second.CompletedSteps != 2 {
		t.Fatalf("expected progress preserved, got %d", second.CompletedSteps)
	}
	if second.ProgressPercent != 50 {
		t.Fatalf("expected 50%%, got %d", second.ProgressPercent)
	}
}

func TestEnrollClientRequiresLinkedClient(t *testing.T) {
	service, _, _ := newProgramFixture()

	program, err := service.CreateProgram(context.Background(), 1, "coach", "Plan", nil, 4)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	if _, err := service.EnrollClient(context.Background(), 1, "coach", program.ID, 9); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unlinked client, got %v", err)
	}
}

func TestUpdateProgressClampsToTotalSteps(t *testing.T) {
	service, _, _ := newProgramFixture()

	program, err := service.CreateProgram(context.Background(), 1, "coach", "Plan", nil, 3)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if _, err := service.EnrollClient(context.Background(), 1, "coach", program.ID, 2); err != nil {
		t.Fatalf("EnrollClient: %v", err)
	}

	progress, err := service.UpdateProgress(context.Background(), 1, "coach", program.ID, 2, 10)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if progress.CompletedSteps != 3 {
		t.Fatalf("expected steps clamped to 3, got %d", progress.CompletedSteps)
	}
	if progress.ProgressPercent != 100 {
		t.Fatalf("expected 100%%, got %d", progress.ProgressPercent)
	}
}

func TestUpdateProgressUnknownEnrollmentIsNotFound(t *testing.T) {
	service, _, _ := newProgramFixture()

	program, err := service.CreateProgram(context.Background(), 1, "coach", "Plan", nil, 3)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	if _, err := service.UpdateProgress(context.Background(), 1, "coach", program.ID, 2, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgramOwnershipIsEnforced(t *testing.T) {
	service, repo, _ := newProgramFixture()
	repo.programs[50] = &models.Program{ID: 50, CoachID: 9, TotalSteps: 3}

	if _, err := service.EnrollClient(context.Background(), 1, "coach", 50, 2); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for foreign program, got %v", err)
	}
	if _, err := service.EnrollClient(context.Background(), 1, "coach", 404, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown program, got %v", err)
	}
}
