package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

const streamColumns = `s.id, s.user_id, s.title, s.category_id, s.thumbnail_url,
	s.ingress_id, s.server_url, s.stream_key, s.is_live,
	s.is_chat_enabled, s.is_chat_followers_only, s.is_chat_premium_followers_only,
	s.created_at, s.updated_at`

type PostgresStreamRepository struct {
	db *sql.DB
}

func NewPostgresStreamRepository(db *sql.DB) ports.StreamRepository {
	return &PostgresStreamRepository{db: db}
}

func (r *PostgresStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	query := `INSERT INTO streams (id, user_id, title, category_id, thumbnail_url,
		ingress_id, server_url, stream_key, is_live,
		is_chat_enabled, is_chat_followers_only, is_chat_premium_followers_only,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		stream.ID, stream.UserID, stream.Title, stream.CategoryID, stream.ThumbnailURL,
		stream.IngressID, stream.ServerURL, stream.StreamKey, stream.IsLive,
		stream.ChatSettings.IsChatEnabled,
		stream.ChatSettings.IsChatFollowersOnly,
		stream.ChatSettings.IsChatPremiumFollowersOnly,
		stream.CreatedAt, stream.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stream: %w", err)
	}
	return nil
}

func (r *PostgresStreamRepository) GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error) {
	query := `SELECT ` + streamColumns + ` FROM streams s WHERE s.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresStreamRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error) {
	query := `SELECT ` + streamColumns + ` FROM streams s WHERE s.user_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	query := `UPDATE streams SET
		title = $2, category_id = $3, thumbnail_url = $4,
		ingress_id = $5, server_url = $6, stream_key = $7, is_live = $8,
		is_chat_enabled = $9, is_chat_followers_only = $10,
		is_chat_premium_followers_only = $11, updated_at = $12
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		stream.ID, stream.Title, stream.CategoryID, stream.ThumbnailURL,
		stream.IngressID, stream.ServerURL, stream.StreamKey, stream.IsLive,
		stream.ChatSettings.IsChatEnabled,
		stream.ChatSettings.IsChatFollowersOnly,
		stream.ChatSettings.IsChatPremiumFollowersOnly,
		stream.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrStreamNotFound
	}
	return nil
}

// List returns the browse directory: live streams first, newest first,
// owners of deactivated accounts excluded. The search term matches stream
// titles and owner usernames.
func (r *PostgresStreamRepository) List(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error) {
	query := `SELECT ` + streamColumns + `
		FROM streams s
		JOIN users u ON u.id = s.user_id
		WHERE u.is_deactivated = FALSE`

	args := []interface{}{}
	if filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		query += fmt.Sprintf(" AND (s.title ILIKE $%d OR u.username ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY s.is_live DESC, s.created_at DESC"

	if filters.Take > 0 {
		args = append(args, filters.Take)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Skip > 0 {
		args = append(args, filters.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	defer rows.Close()

	var streams []*domain.Stream
	for rows.Next() {
		stream, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate streams: %w", err)
	}

	return streams, nil
}

func (r *PostgresStreamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM streams s JOIN users u ON u.id = s.user_id WHERE u.is_deactivated = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count streams: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresStreamRepository) scanOne(row rowScanner) (*domain.Stream, error) {
	stream := &domain.Stream{}
	err := row.Scan(
		&stream.ID, &stream.UserID, &stream.Title, &stream.CategoryID, &stream.ThumbnailURL,
		&stream.IngressID, &stream.ServerURL, &stream.StreamKey, &stream.IsLive,
		&stream.ChatSettings.IsChatEnabled,
		&stream.ChatSettings.IsChatFollowersOnly,
		&stream.ChatSettings.IsChatPremiumFollowersOnly,
		&stream.CreatedAt, &stream.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreamNotFound
		}
		return nil, fmt.Errorf("failed to scan stream: %w", err)
	}
	return stream, nil
}
