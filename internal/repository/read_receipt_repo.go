package repository

import (
	"context"
)

type ReadReceiptRepository struct {
	db DBTX
}

func NewReadReceiptRepository(db DBTX) *ReadReceiptRepository {
	return &ReadReceiptRepository{db: db}
}

// MarkConversationRead records a receipt for every message in the
// conversation the reader has not seen yet. Re-running it inserts nothing.
func (r *ReadReceiptRepository) MarkConversationRead(
	ctx context.Context,
	conversationID int64,
	readerID int64,
) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.conversation_id = $1
		  AND m.sender_id <> $2
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkMessagesRead restricts the receipt insert to an explicit id set. Ids
// that do not belong to the conversation fall out of the join and are
// ignored, which keeps the call tolerant of races between a list fetch and
// the mark-read that follows it.
func (r *ReadReceiptRepository) MarkMessagesRead(
	ctx context.Context,
	conversationID int64,
	readerID int64,
	messageIDs []int64,
) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.conversation_id = $1
		  AND m.id = ANY($3)
		  AND m.sender_id <> $2
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, conversationID, readerID, messageIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListReaders returns who has read a message and when.
func (r *ReadReceiptRepository) ListReaders(
	ctx context.Context,
	messageID int64,
) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id
		FROM message_reads
		WHERE message_id = $1
		ORDER BY read_at, user_id
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readers := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		readers = append(readers, userID)
	}
	return readers, rows.Err()
}
