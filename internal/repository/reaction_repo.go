package repository

import (
	"context"

	"github.com/ai-28/suplient/internal/models"
)

type ReactionRepository struct {
	db DBTX
}

func NewReactionRepository(db DBTX) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert stores the (message, user, emoji) tuple. On conflict the no-op
// DO UPDATE makes RETURNING yield the existing row unchanged, so repeated
// adds converge on one reaction.
func (r *ReactionRepository) Upsert(
	ctx context.Context,
	messageID int64,
	userID int64,
	emoji string,
) (*models.Reaction, error) {
	query := `
		INSERT INTO message_reactions (message_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (message_id, user_id, emoji)
		DO UPDATE SET emoji = message_reactions.emoji
		RETURNING id, message_id, user_id, emoji, created_at
	`

	var reaction models.Reaction
	err := r.db.QueryRow(ctx, query, messageID, userID, emoji).Scan(
		&reaction.ID,
		&reaction.MessageID,
		&reaction.UserID,
		&reaction.Emoji,
		&reaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &reaction, nil
}

// Delete removes the tuple if present; deleting an absent tuple is a no-op.
func (r *ReactionRepository) Delete(
	ctx context.Context,
	messageID int64,
	userID int64,
	emoji string,
) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM message_reactions
		WHERE message_id = $1 AND user_id = $2 AND emoji = $3
	`, messageID, userID, emoji)
	return err
}

func (r *ReactionRepository) ListByMessage(
	ctx context.Context,
	messageID int64,
) ([]models.Reaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, message_id, user_id, emoji, created_at
		FROM message_reactions
		WHERE message_id = $1
		ORDER BY created_at, id
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := make([]models.Reaction, 0)
	for rows.Next() {
		var reaction models.Reaction
		if err := rows.Scan(
			&reaction.ID,
			&reaction.MessageID,
			&reaction.UserID,
			&reaction.Emoji,
			&reaction.CreatedAt,
		); err != nil {
			return nil, err
		}
		reactions = append(reactions, reaction)
	}

	return reactions, rows.Err()
}
