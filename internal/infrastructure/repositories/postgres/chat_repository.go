package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

const chatHistoryLimit = 200

type PostgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(db *sql.DB) ports.ChatMessageRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, stream_id, user_id, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.StreamID, message.UserID,
		message.Username, message.Text, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// FindByStream returns the newest messages first, capped so a long-lived
// stream cannot drag the whole history over the wire.
func (r *PostgresChatRepository) FindByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error) {
	query := `SELECT id, stream_id, user_id, username, text, created_at
		FROM chat_messages
		WHERE stream_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, streamID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		message := &domain.ChatMessage{}
		if err := rows.Scan(
			&message.ID, &message.StreamID, &message.UserID,
			&message.Username, &message.Text, &message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}

	return messages, nil
}
