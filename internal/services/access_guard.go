package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type participantReader interface {
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
}

type messageResolver interface {
	ConversationID(ctx context.Context, messageID int64) (int64, error)
}

// AccessGuard is the single membership check every mutating chat operation
// consults before touching storage.
type AccessGuard struct {
	conversations participantReader
	messages      messageResolver
}

func NewAccessGuard(conversations participantReader, messages messageResolver) *AccessGuard {
	return &AccessGuard{
		conversations: conversations,
		messages:      messages,
	}
}

// IsParticipant reports whether userID belongs to the conversation's
// participant set. An unknown conversation id yields false rather than an
// error, so callers answer with a uniform denial instead of revealing
// whether the conversation exists.
func (g *AccessGuard) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	if conversationID <= 0 || userID <= 0 {
		return false, nil
	}
	return g.conversations.IsParticipant(ctx, conversationID, userID)
}

// CanAccessMessage resolves the message's owning conversation and delegates
// to the same membership test. A missing message yields false, not an error.
func (g *AccessGuard) CanAccessMessage(ctx context.Context, messageID, userID int64) (bool, error) {
	if messageID <= 0 || userID <= 0 {
		return false, nil
	}

	conversationID, err := g.messages.ConversationID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return g.conversations.IsParticipant(ctx, conversationID, userID)
}
