package models

import (
	"time"

	"github.com/google/uuid"
)

// Message описывает одно анонимное сообщение. Отправитель нигде не сохраняется.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"-"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
