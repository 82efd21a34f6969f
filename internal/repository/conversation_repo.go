package repository

import (
	"context"
	"database/sql"

	"github.com/ai-28/suplient/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = "id, kind, client_id, coach_id, group_id, created_at, updated_at"

func scanConversation(row interface{ Scan(dest ...any) error }) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.Kind,
		&conversation.ClientID,
		&conversation.CoachID,
		&conversation.GroupID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// CreateOrGetDirect upserts the single direct conversation between a client
// and a coach. The no-op DO UPDATE makes RETURNING yield the existing row on
// conflict.
func (r *ConversationRepository) CreateOrGetDirect(
	ctx context.Context,
	clientID int64,
	coachID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (kind, client_id, coach_id)
		VALUES ('direct', $1, $2)
		ON CONFLICT (client_id, coach_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING ` + conversationColumns

	conversation, err := scanConversation(r.db.QueryRow(ctx, query, clientID, coachID))
	if err != nil {
		return nil, err
	}

	if err := r.ensureParticipants(ctx, conversation.ID, clientID, coachID); err != nil {
		return nil, err
	}
	return conversation, nil
}

// CreateOrGetForGroup upserts the single conversation attached to a group.
func (r *ConversationRepository) CreateOrGetForGroup(
	ctx context.Context,
	groupID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (kind, group_id)
		VALUES ('group', $1)
		ON CONFLICT (group_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING ` + conversationColumns

	return scanConversation(r.db.QueryRow(ctx, query, groupID))
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	return scanConversation(r.db.QueryRow(ctx, query, conversationID))
}

func (r *ConversationRepository) GetByGroupID(ctx context.Context, groupID int64) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE group_id = $1`
	return scanConversation(r.db.QueryRow(ctx, query, groupID))
}

// IsParticipant reports membership; an unknown conversation id simply yields
// false.
func (r *ConversationRepository) IsParticipant(
	ctx context.Context,
	conversationID int64,
	userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2
		)
	`
	var isParticipant bool
	if err := r.db.QueryRow(ctx, query, conversationID, userID).Scan(&isParticipant); err != nil {
		return false, err
	}
	return isParticipant, nil
}

func (r *ConversationRepository) ParticipantIDs(
	ctx context.Context,
	conversationID int64,
) ([]int64, error) {
	query := `
		SELECT user_id
		FROM conversation_participants
		WHERE conversation_id = $1
		ORDER BY user_id
	`
	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ConversationRepository) AddParticipant(
	ctx context.Context,
	conversationID int64,
	userID int64,
) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO conversation_participants (conversation_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, conversationID, userID)
	return err
}

func (r *ConversationRepository) RemoveParticipant(
	ctx context.Context,
	conversationID int64,
	userID int64,
) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM conversation_participants
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)
	return err
}

// SyncGroupParticipants copies the group's current membership (coach
// included) into the conversation's participant set.
func (r *ConversationRepository) SyncGroupParticipants(
	ctx context.Context,
	conversationID int64,
	groupID int64,
) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO conversation_participants (conversation_id, user_id)
		SELECT $1, gm.user_id FROM group_members gm WHERE gm.group_id = $2
		UNION
		SELECT $1, g.coach_id FROM groups g WHERE g.id = $2
		ON CONFLICT DO NOTHING
	`, conversationID, groupID)
	return err
}

func (r *ConversationRepository) ensureParticipants(
	ctx context.Context,
	conversationID int64,
	userIDs ...int64,
) error {
	for _, userID := range userIDs {
		if err := r.AddParticipant(ctx, conversationID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.kind,
			c.client_id,
			c.coach_id,
			c.group_id,
			c.created_at,
			c.updated_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.content,
			lm.created_at,
			COALESCE(uc.unread_count, 0)
		FROM conversations c
		JOIN conversation_participants cp
			ON cp.conversation_id = c.id AND cp.user_id = $1
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, content, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages m
			WHERE m.conversation_id = c.id
			  AND m.sender_id <> $1
			  AND NOT EXISTS (
				SELECT 1
				FROM message_reads mr
				WHERE mr.message_id = m.id AND mr.user_id = $1
			  )
		) uc ON TRUE
		ORDER BY COALESCE(lm.created_at, c.updated_at, c.created_at) DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID sql.NullInt64
		var messageConversationID sql.NullInt64
		var messageSenderID sql.NullInt64
		var messageContent sql.NullString
		var messageCreatedAt sql.NullTime

		if err := rows.Scan(
			&summary.ID,
			&summary.Kind,
			&summary.ClientID,
			&summary.CoachID,
			&summary.GroupID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageContent,
			&messageCreatedAt,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			summary.LastMessage = &models.ChatMessage{
				ID:             messageID.Int64,
				ConversationID: messageConversationID.Int64,
				SenderID:       messageSenderID.Int64,
				Content:        messageContent.String,
				CreatedAt:      messageCreatedAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// TouchThrottled bumps updated_at unless it was bumped within the last
// minute, so chatty conversations do not rewrite the row on every message.
func (r *ConversationRepository) TouchThrottled(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
		  AND updated_at < NOW() - INTERVAL '1 minute'
	`, conversationID)
	return err
}
