package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
)

type stubClientRepo struct {
	links  map[[2]int64]*models.Client
	nextID int64
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{links: make(map[[2]int64]*models.Client)}
}

func (s *stubClientRepo) Link(_ context.Context, coachID, userID int64) (*models.Client, error) {
	key := [2]int64{coachID, userID}
	if client, ok := s.links[key]; ok {
		client.Status = "active"
		return client, nil
	}
	s.nextID++
	client := &models.Client{ID: s.nextID, CoachID: coachID, UserID: userID, Status: "active"}
	s.links[key] = client
	return client, nil
}

func (s *stubClientRepo) Unlink(_ context.Context, coachID, userID int64) error {
	if client, ok := s.links[[2]int64{coachID, userID}]; ok {
		client.Status = "archived"
	}
	return nil
}

func (s *stubClientRepo) ListByCoach(_ context.Context, coachID int64) ([]models.ClientDetail, error) {
	var details []models.ClientDetail
	for _, client := range s.links {
		if client.CoachID == coachID && client.Status == "active" {
			details = append(details, models.ClientDetail{Client: *client})
		}
	}
	return details, nil
}

type stubUserReader struct {
	users map[int64]*models.User
}

func (s *stubUserReader) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func newClientFixture() (*ClientService, *stubClientRepo) {
	repo := newStubClientRepo()
	users := &stubUserReader{users: map[int64]*models.User{
		2: {ID: 2, Role: "client"},
		3: {ID: 3, Role: "coach"},
	}}
	return NewClientService(repo, users), repo
}

func TestLinkClientIsIdempotent(t *testing.T) {
	service, repo := newClientFixture()

	first, err := service.LinkClient(context.Background(), 1, "coach", 2)
	if err != nil {
		t.Fatalf("LinkClient: %v", err)
	}
	second, err := service.LinkClient(context.Background(), 1, "coach", 2)
	if err != nil {
		t.Fatalf("LinkClient (repeat): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same link row, got ids %d and %d", first.ID, second.ID)
	}
	if len(repo.links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(repo.links))
	}
}

func TestLinkClientValidation(t *testing.T) {
	service, _ := newClientFixture()

	if _, err := service.LinkClient(context.Background(), 1, "client", 2); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-coach, got %v", err)
	}
	if _, err := service.LinkClient(context.Background(), 1, "coach", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-link, got %v", err)
	}
	if _, err := service.LinkClient(context.Background(), 1, "coach", 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-client target, got %v", err)
	}
	if _, err := service.LinkClient(context.Background(), 1, "coach", 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestUnlinkClientArchivesLink(t *testing.T) {
	service, repo := newClientFixture()

	if _, err := service.LinkClient(context.Background(), 1, "coach", 2); err != nil {
		t.Fatalf("LinkClient: %v", err)
	}
	if err := service.UnlinkClient(context.Background(), 1, "coach", 2); err != nil {
		t.Fatalf("UnlinkClient: %v", err)
	}

	details, err := service.ListClients(context.Background(), 1, "coach")
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected no active clients, got %d", len(details))
	}
	if repo.links[[2]int64{1, 2}].Status != "archived" {
		t.Fatal("expected link archived, not deleted")
	}

	// Relinking reactivates the archived roster entry.
	relinked, err := service.LinkClient(context.Background(), 1, "coach", 2)
	if err != nil {
		t.Fatalf("LinkClient (relink): %v", err)
	}
	if relinked.Status != "active" {
		t.Fatalf("expected active after relink, got %q", relinked.Status)
	}
}
