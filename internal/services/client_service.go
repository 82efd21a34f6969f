package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
)

type clientStore interface {
	Link(ctx context.Context, coachID, userID int64) (*models.Client, error)
	Unlink(ctx context.Context, coachID, userID int64) error
	ListByCoach(ctx context.Context, coachID int64) ([]models.ClientDetail, error)
}

type ClientService struct {
	clientRepo clientStore
	userRepo   userReader
}

func NewClientService(clientRepo clientStore, userRepo userReader) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		userRepo:   userRepo,
	}
}

// LinkClient adds a client to the coach's roster; relinking is idempotent.
func (s *ClientService) LinkClient(
	ctx context.Context,
	coachID int64,
	role string,
	userID int64,
) (*models.Client, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	if userID <= 0 || userID == coachID {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.Role != "client" {
		return nil, ErrInvalidInput
	}

	return s.clientRepo.Link(ctx, coachID, userID)
}

func (s *ClientService) UnlinkClient(
	ctx context.Context,
	coachID int64,
	role string,
	userID int64,
) error {
	if role != "coach" {
		return ErrNotAuthorized
	}
	if userID <= 0 {
		return ErrInvalidInput
	}

	return s.clientRepo.Unlink(ctx, coachID, userID)
}

func (s *ClientService) ListClients(
	ctx context.Context,
	coachID int64,
	role string,
) ([]models.ClientDetail, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	return s.clientRepo.ListByCoach(ctx, coachID)
}
