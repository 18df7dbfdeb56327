package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает аккаунт получателя анонимных сообщений.
type User struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	Username            string     `db:"username" json:"username"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	IsVerified          bool       `db:"is_verified" json:"is_verified"`
	VerifyCode          *string    `db:"verify_code" json:"-"`
	VerifyCodeExpiresAt *time.Time `db:"verify_code_expires_at" json:"-"`
	IsAcceptingMessages bool       `db:"is_accepting_messages" json:"is_accepting_messages"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую refresh-сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
