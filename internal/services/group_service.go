package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
	"github.com/ai-28/suplient/internal/repository"
)

type groupStore interface {
	Create(ctx context.Context, input repository.CreateGroupInput) (*models.Group, error)
	GetByID(ctx context.Context, groupID int64) (*models.Group, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.GroupDetail, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]models.GroupMember, error)
}

type rosterReader interface {
	IsLinked(ctx context.Context, coachID, userID int64) (bool, error)
}

type groupConversationSyncer interface {
	GetByGroupID(ctx context.Context, groupID int64) (*models.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID int64) error
	RemoveParticipant(ctx context.Context, conversationID, userID int64) error
}

type GroupService struct {
	groupRepo        groupStore
	clientRepo       rosterReader
	conversationRepo groupConversationSyncer
}

func NewGroupService(
	groupRepo groupStore,
	clientRepo rosterReader,
	conversationRepo groupConversationSyncer,
) *GroupService {
	return &GroupService{
		groupRepo:        groupRepo,
		clientRepo:       clientRepo,
		conversationRepo: conversationRepo,
	}
}

func (s *GroupService) CreateGroup(
	ctx context.Context,
	coachID int64,
	role string,
	name string,
	description *string,
) (*models.Group, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}

	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, ErrInvalidInput
	}

	var trimmedDescription *string
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed != "" {
			trimmedDescription = &trimmed
		}
	}

	return s.groupRepo.Create(ctx, repository.CreateGroupInput{
		CoachID:     coachID,
		Name:        trimmedName,
		Description: trimmedDescription,
	})
}

func (s *GroupService) GetGroup(ctx context.Context, actorID, groupID int64) (*models.Group, error) {
	if groupID <= 0 {
		return nil, ErrInvalidInput
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	if err := s.requireGroupAccess(ctx, group, actorID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context, coachID int64, role string) ([]models.GroupDetail, error) {
	if role != "coach" {
		return nil, ErrNotAuthorized
	}
	return s.groupRepo.ListByCoach(ctx, coachID)
}

// AddMember adds an active client of the coach to the group. If the group's
// conversation already exists the new member joins its participant set
// immediately.
func (s *GroupService) AddMember(
	ctx context.Context,
	coachID int64,
	role string,
	groupID int64,
	userID int64,
) error {
	if role != "coach" {
		return ErrNotAuthorized
	}
	if groupID <= 0 || userID <= 0 {
		return ErrInvalidInput
	}

	group, err := s.ownedGroup(ctx, coachID, groupID)
	if err != nil {
		return err
	}

	linked, err := s.clientRepo.IsLinked(ctx, group.CoachID, userID)
	if err != nil {
		return err
	}
	if !linked {
		return ErrInvalidInput
	}

	if err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		return err
	}

	return s.syncConversation(ctx, groupID, userID, true)
}

func (s *GroupService) RemoveMember(
	ctx context.Context,
	coachID int64,
	role string,
	groupID int64,
	userID int64,
) error {
	if role != "coach" {
		return ErrNotAuthorized
	}
	if groupID <= 0 || userID <= 0 {
		return ErrInvalidInput
	}

	if _, err := s.ownedGroup(ctx, coachID, groupID); err != nil {
		return err
	}

	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}

	return s.syncConversation(ctx, groupID, userID, false)
}

func (s *GroupService) ListMembers(ctx context.Context, actorID, groupID int64) ([]models.GroupMember, error) {
	if groupID <= 0 {
		return nil, ErrInvalidInput
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	if err := s.requireGroupAccess(ctx, group, actorID); err != nil {
		return nil, err
	}

	return s.groupRepo.ListMembers(ctx, groupID)
}

func (s *GroupService) ownedGroup(ctx context.Context, coachID, groupID int64) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if group.CoachID != coachID {
		return nil, ErrNotAuthorized
	}
	return group, nil
}

func (s *GroupService) requireGroupAccess(ctx context.Context, group *models.Group, actorID int64) error {
	if group.CoachID == actorID {
		return nil
	}
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotAuthorized
	}
	return nil
}

func (s *GroupService) syncConversation(ctx context.Context, groupID, userID int64, joined bool) error {
	conversation, err := s.conversationRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No conversation yet; membership is picked up on first access.
			return nil
		}
		return err
	}

	if joined {
		return s.conversationRepo.AddParticipant(ctx, conversation.ID, userID)
	}
	return s.conversationRepo.RemoveParticipant(ctx, conversation.ID, userID)
}
