package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/mystry-backend/internal/models"
)

// ErrMessageNotFound возвращается, когда сообщение отсутствует или уже удалено.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository отвечает за работу с таблицей messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр репозитория.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append добавляет сообщение в коллекцию получателя.
func (r *MessageRepository) Append(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (user_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, msg.UserID, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: append %w", err)
	}

	return nil
}

// ListByUser возвращает сообщения пользователя, новые первыми.
func (r *MessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT id, user_id, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	messages := []models.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("message repository: list %w", err)
	}

	return messages, nil
}

// Delete удаляет сообщение, принадлежащее пользователю. Чужие сообщения недоступны.
func (r *MessageRepository) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1 AND user_id = $2`, messageID, userID)
	if err != nil {
		return fmt.Errorf("message repository: delete %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
