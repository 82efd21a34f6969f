package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type noteStore interface {
	Create(ctx context.Context, input repository.CreateNoteInput) (*models.Note, error)
	GetByID(ctx context.Context, noteID int64) (*models.Note, error)
	ListByClient(ctx context.Context, coachID, clientID int64) ([]models.Note, error)
	Update(ctx context.Context, noteID int64, title, body string) (*models.Note, error)
	Delete(ctx context.Context, noteID int64) error
}

type NoteService struct {
	noteRepo   noteStore
	clientRepo rosterReader
}

func NewNoteService(noteRepo noteStore, clientRepo rosterReader) *NoteService {
	return &NoteService{
		noteRepo:   noteRepo,
		clientRepo: clientRepo,
	}
}

func (s *NoteService) CreateNote(
	ctx context.Context,
	coachID int64,
	role string,
	clientID int64,
	title string,
	body string,
) (*models.Note, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if clientID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmedBody := strings.TrimSpace(body)
	if trimmedBody == "" {
		return nil, ErrInvalidInput
	}

	linked, err := s.clientRepo.IsLinked(ctx, coachID, clientID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrInvalidInput
	}

	return s.noteRepo.Create(ctx, repository.CreateNoteInput{
		CoachID:  coachID,
		ClientID: clientID,
		Title:    strings.TrimSpace(title),
		Body:     trimmedBody,
	})
}

func (s *NoteService) ListNotes(
	ctx context.Context,
	coachID int64,
	role string,
	clientID int64,
) ([]models.Note, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if clientID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.noteRepo.ListByClient(ctx, coachID, clientID)
}

func (s *NoteService) UpdateNote(
	ctx context.Context,
	coachID int64,
	role string,
	noteID int64,
	title string,
	body string,
) (*models.Note, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}

	trimmedBody := strings.TrimSpace(body)
	if noteID <= 0 || trimmedBody == "" {
		return nil, ErrInvalidInput
	}

	if err := s.ownedNote(ctx, coachID, noteID); err != nil {
		return nil, err
	}

	return s.noteRepo.Update(ctx, noteID, strings.TrimSpace(title), trimmedBody)
}

func (s *NoteService) DeleteNote(
	ctx context.Context,
	coachID int64,
	role string,
	noteID int64,
) error {
	if role != "coach" {
		return ErrNotAuthorized
	}
	if noteID <= 0 {
		return ErrInvalidInput
	}

	if err := s.ownedNote(ctx, coachID, noteID); err != nil {
		return err
	}

	return s.noteRepo.Delete(ctx, noteID)
}

func (s *NoteService) ownedNote(ctx context.Context, coachID, noteID int64) error {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if note.CoachID != coachID {
		return ErrNotAuthorized
	}
	return nil
}
