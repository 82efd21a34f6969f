package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type stubNoteRepo struct {
	notes  map[int64]*models.Note
	nextID int64
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[int64]*models.Note)}
}

func (s *stubNoteRepo) Create(_ context.Context, input repository.CreateNoteInput) (*models.Note, error) {
	s.nextID++
	note := &models.Note{
		ID:       s.nextID,
		CoachID:  input.CoachID,
		ClientID: input.ClientID,
		Title:    input.Title,
		Body:     input.Body,
	}
	s.notes[note.ID] = note
	return note, nil
}

func (s *stubNoteRepo) GetByID(_ context.Context, noteID int64) (*models.Note, error) {
	note, ok := s.notes[noteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return note, nil
}

func (s *stubNoteRepo) ListByClient(_ context.Context, coachID, clientID int64) ([]models.Note, error) {
	var notes []models.Note
	for _, note := range s.notes {
		if note.CoachID == coachID && note.ClientID == clientID {
			notes = append(notes, *note)
		}
	}
	return notes, nil
}

func (s *stubNoteRepo) Update(_ context.Context, noteID int64, title, body string) (*models.Note, error) {
	note, ok := s.notes[noteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	note.Title = title
	note.Body = body
	return note, nil
}

func (s *stubNoteRepo) Delete(_ context.Context, noteID int64) error {
	delete(s.notes, noteID)
	return nil
}

func newNoteFixture() (*NoteService, *stubNoteRepo) {
	repo := newStubNoteRepo()
	roster := &stubRoster{linked: map[[2]int64]bool{{1, 2}: true}}
	return NewNoteService(repo, roster), repo
}

func TestCreateNoteValidation(t *testing.T) {
	service, _ := newNoteFixture()

	if _, err := service.CreateNote(context.Background(), 1, "client", 2, "t", "b"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-coach, got %v", err)
	}
	if _, err := service.CreateNote(context.Background(), 1, "coach", 2, "t", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank body, got %v", err)
	}
	if _, err := service.CreateNote(context.Background(), 1, "coach", 9, "t", "b"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unlinked client, got %v", err)
	}

	note, err := service.CreateNote(context.Background(), 1, "coach", 2, " Session 1 ", " went well ")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if note.Title != "Session 1" || note.Body != "went well" {
		t.Fatalf("expected trimmed fields, got %q / %q", note.Title, note.Body)
	}
}

func TestNoteOwnership(t *testing.T) {
	service, repo := newNoteFixture()
	repo.notes[50] = &models.Note{ID: 50, CoachID: 9, ClientID: 2, Body: "private"}

	if _, err := service.UpdateNote(context.Background(), 1, "coach", 50, "t", "b"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for foreign note, got %v", err)
	}
	if err := service.DeleteNote(context.Background(), 1, "coach", 50); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized on delete, got %v", err)
	}
	if _, err := service.UpdateNote(context.Background(), 1, "coach", 404, "t", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown note, got %v", err)
	}

	if _, ok := repo.notes[50]; !ok {
		t.Fatal("expected the foreign note to survive")
	}
}

func TestUpdateAndDeleteNote(t *testing.T) {
	service, repo := newNoteFixture()

	note, err := service.CreateNote(context.Background(), 1, "coach", 2, "Session", "first draft")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	updated, err := service.UpdateNote(context.Background(), 1, "coach", note.ID, "Session", "final")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Body != "final" {
		t.Fatalf("expected updated body, got %q", updated.Body)
	}

	if err := service.DeleteNote(context.Background(), 1, "coach", note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, ok := repo.notes[note.ID]; ok {
		t.Fatal("expected note deleted")
	}
}
