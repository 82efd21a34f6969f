package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ai-28/suplient/internal/models"
)

type conversationStore interface {
	CreateOrGetDirect(ctx context.Context, clientID, coachID int64) (*models.Conversation, error)
	CreateOrGetForGroup(ctx context.Context, groupID int64) (*models.Conversation, error)
	SyncGroupParticipants(ctx context.Context, conversationID, groupID int64) error
	ParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error)
	ListForParticipant(ctx context.Context, participantID int64) ([]models.ConversationSummary, error)
	TouchThrottled(ctx context.Context, conversationID int64) error
}

type messageStore interface {
	Create(ctx context.Context, conversationID, senderID int64, content string) (*models.ChatMessage, error)
	ListByConversation(ctx context.Context, conversationID int64, limit, offset int) ([]models.ChatMessage, int, error)
	ConversationID(ctx context.Context, messageID int64) (int64, error)
}

type receiptStore interface {
	MarkConversationRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID int64, messageIDs []int64) (int64, error)
}

type reactionStore interface {
	Upsert(ctx context.Context, messageID, userID int64, emoji string) (*models.Reaction, error)
	Delete(ctx context.Context, messageID, userID int64, emoji string) error
}

type groupReader interface {
	GetByID(ctx context.Context, groupID int64) (*models.Group, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ChatService runs every chat mutation through the same sequence: the guard
// gates the caller, persistence must succeed, then the fan-out dispatcher
// broadcasts a best-effort event that can never fail the operation.
type ChatService struct {
	conversationRepo conversationStore
	messageRepo      messageStore
	receiptRepo      receiptStore
	reactionRepo     reactionStore
	groupRepo        groupReader
	userRepo         userReader
	guard            *AccessGuard
	fanout           *FanoutDispatcher
}

type ChatDelivery struct {
	Message      *models.ChatMessage
	RecipientIDs []int64
}

func NewChatService(
	conversationRepo conversationStore,
	messageRepo messageStore,
	receiptRepo receiptStore,
	reactionRepo reactionStore,
	groupRepo groupReader,
	userRepo userReader,
	guard *AccessGuard,
	fanout *FanoutDispatcher,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		receiptRepo:      receiptRepo,
		reactionRepo:     reactionRepo,
		groupRepo:        groupRepo,
		userRepo:         userRepo,
		guard:            guard,
		fanout:           fanout,
	}
}

func (s *ChatService) ListConversations(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.ConversationSummary, error) {
	if role != "client" && role != "coach" {
		return nil, ErrNotAuthorized
	}

	return s.conversationRepo.ListForParticipant(ctx, actorID)
}

// CreateDirectConversation gets or lazily creates the single direct
// conversation between a client and a coach.
func (s *ChatService) CreateDirectConversation(
	ctx context.Context,
	actorID int64,
	role string,
	otherID int64,
) (*models.Conversation, error) {
	if role != "client" && role != "coach" {
		return nil, ErrNotAuthorized
	}
	if otherID <= 0 || otherID == actorID {
		return nil, ErrInvalidInput
	}

	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	clientID, coachID := actorID, otherID
	if role == "coach" {
		clientID, coachID = otherID, actorID
	}
	wantOtherRole := "coach"
	if role == "coach" {
		wantOtherRole = "client"
	}
	if other.Role != wantOtherRole {
		return nil, ErrInvalidInput
	}

	return s.conversationRepo.CreateOrGetDirect(ctx, clientID, coachID)
}

// GetOrCreateGroupConversation resolves the group's conversation, creating
// it on first access. Calling it twice yields the same conversation, and the
// participant set is re-synced from group membership on every call so the
// coach and current members are always participants.
func (s *ChatService) GetOrCreateGroupConversation(
	ctx context.Context,
	actorID int64,
	groupID int64,
) (*models.Conversation, error) {
	if groupID <= 0 || actorID <= 0 {
		return nil, ErrInvalidInput
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	if group.CoachID != actorID {
		isMember, err := s.groupRepo.IsMember(ctx, groupID, actorID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrNotAuthorized
		}
	}

	conversation, err := s.conversationRepo.CreateOrGetForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.conversationRepo.SyncGroupParticipants(ctx, conversation.ID, groupID); err != nil {
		return nil, err
	}

	return conversation, nil
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID int64,
	conversationID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	if err := s.requireParticipant(ctx, conversationID, actorID); err != nil {
		return nil, 0, err
	}

	return s.messageRepo.ListByConversation(ctx, conversationID, limit, (page-1)*limit)
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID int64,
	conversationID int64,
	content string,
) (*ChatDelivery, error) {
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	if err := s.requireParticipant(ctx, conversationID, actorID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, conversationID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	// The message is committed; a failed touch only stales the sort order.
	if err := s.conversationRepo.TouchThrottled(ctx, conversationID); err != nil {
		log.Printf("chat: touch conversation %d: %v", conversationID, err)
	}

	recipients := s.participants(ctx, conversationID)
	s.fanout.Notify(recipients, Event{Type: EventMessageCreated, Payload: message})

	return &ChatDelivery{Message: message, RecipientIDs: recipients}, nil
}

// MarkRead records read receipts for the whole conversation, or for an
// explicit subset when messageIDs is non-empty. It is idempotent: marking
// already-read messages inserts nothing and is not an error.
func (s *ChatService) MarkRead(
	ctx context.Context,
	actorID int64,
	conversationID int64,
	messageIDs []int64,
) (int64, error) {
	if conversationID <= 0 {
		return 0, ErrInvalidInput
	}

	if err := s.requireParticipant(ctx, conversationID, actorID); err != nil {
		return 0, err
	}

	var marked int64
	var err error
	if len(messageIDs) == 0 {
		marked, err = s.receiptRepo.MarkConversationRead(ctx, conversationID, actorID)
	} else {
		marked, err = s.receiptRepo.MarkMessagesRead(ctx, conversationID, actorID, messageIDs)
	}
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		recipients := excludeID(s.participants(ctx, conversationID), actorID)
		s.fanout.Notify(recipients, Event{
			Type: EventMessageRead,
			Payload: map[string]any{
				"conversation_id": conversationID,
				"reader_id":       actorID,
				"read_at":         time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	return marked, nil
}

// AddReaction upserts the caller's reaction; repeating the call returns the
// stored reaction unchanged.
func (s *ChatService) AddReaction(
	ctx context.Context,
	actorID int64,
	messageID int64,
	emoji string,
) (*models.Reaction, error) {
	trimmed := strings.TrimSpace(emoji)
	if messageID <= 0 || trimmed == "" {
		return nil, ErrInvalidInput
	}

	if err := s.requireMessageAccess(ctx, messageID, actorID); err != nil {
		return nil, err
	}

	reaction, err := s.reactionRepo.Upsert(ctx, messageID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	s.notifyMessageParticipants(ctx, messageID, Event{Type: EventReactionAdded, Payload: reaction})

	return reaction, nil
}

// RemoveReaction deletes the caller's reaction; removing a reaction that was
// never added is a no-op returning success.
func (s *ChatService) RemoveReaction(
	ctx context.Context,
	actorID int64,
	messageID int64,
	emoji string,
) error {
	trimmed := strings.TrimSpace(emoji)
	if messageID <= 0 || trimmed == "" {
		return ErrInvalidInput
	}

	if err := s.requireMessageAccess(ctx, messageID, actorID); err != nil {
		return err
	}

	if err := s.reactionRepo.Delete(ctx, messageID, actorID, trimmed); err != nil {
		return err
	}

	s.notifyMessageParticipants(ctx, messageID, Event{
		Type: EventReactionRemoved,
		Payload: map[string]any{
			"message_id": messageID,
			"user_id":    actorID,
			"emoji":      trimmed,
		},
	})

	return nil
}

func (s *ChatService) requireParticipant(ctx context.Context, conversationID, actorID int64) error {
	isParticipant, err := s.guard.IsParticipant(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrNotAuthorized
	}
	return nil
}

func (s *ChatService) requireMessageAccess(ctx context.Context, messageID, actorID int64) error {
	canAccess, err := s.guard.CanAccessMessage(ctx, messageID, actorID)
	if err != nil {
		return err
	}
	if !canAccess {
		return ErrNotAuthorized
	}
	return nil
}

// participants returns the recipient set for fan-out. The mutation has
// already been persisted, so a lookup failure here only costs the live
// notification.
func (s *ChatService) participants(ctx context.Context, conversationID int64) []int64 {
	ids, err := s.conversationRepo.ParticipantIDs(ctx, conversationID)
	if err != nil {
		log.Printf("chat: resolve participants of conversation %d: %v", conversationID, err)
		return nil
	}
	return ids
}

func (s *ChatService) notifyMessageParticipants(ctx context.Context, messageID int64, event Event) {
	conversationID, err := s.messageRepo.ConversationID(ctx, messageID)
	if err != nil {
		log.Printf("chat: resolve conversation of message %d: %v", messageID, err)
		return
	}
	s.fanout.Notify(s.participants(ctx, conversationID), event)
}

func excludeID(ids []int64, exclude int64) []int64 {
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
