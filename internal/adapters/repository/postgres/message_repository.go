package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) ports.MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Save(ctx context.Context, message *domain.Message) error {
	analysis, err := json.Marshal(message.Analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	query := `
		INSERT INTO messages (id, title, content, channel, status, tier, analysis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		message.ID, message.Title, message.Content, message.Channel,
		string(message.Status), string(message.Tier), string(analysis),
		message.CreatedAt, message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, title, content, channel, status, tier, analysis, review_note, created_at, updated_at, reviewed_at
		FROM messages
		WHERE id = $1
	`

	var (
		message      domain.Message
		status, tier string
		analysis     []byte
		reviewedAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID, &message.Title, &message.Content, &message.Channel, &status, &tier,
		&analysis, &message.ReviewNote, &message.CreatedAt, &message.UpdatedAt, &reviewedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	message.Status = domain.MessageStatus(status)
	message.Tier = domain.ApprovalTier(tier)
	if reviewedAt.Valid {
		message.ReviewedAt = &reviewedAt.Time
	}
	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &message.Analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
	}

	return &message, nil
}

func (r *messageRepository) UpdateStatus(ctx context.Context, message *domain.Message, from domain.MessageStatus) error {
	query := `
		UPDATE messages
		SET status = $2, review_note = $3, reviewed_at = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		message.ID, string(message.Status), message.ReviewNote, message.ReviewedAt, message.UpdatedAt, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, message.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check message: %w", err)
	}
	if !exists {
		return domain.ErrMessageNotFound
	}
	return fmt.Errorf("%w: status is no longer %s", domain.ErrInvalidTransition, from)
}
