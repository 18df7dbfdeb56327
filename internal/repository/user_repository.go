package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/mystry-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicate возвращается при нарушении уникальности username или email.
var ErrDuplicate = errors.New("duplicate user")

const userColumns = `id, username, email, password_hash, is_verified, verify_code, verify_code_expires_at, is_accepting_messages, created_at, updated_at`

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового непроверенного пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_verified, verify_code, verify_code_expires_at, is_accepting_messages)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.IsVerified, user.VerifyCode, user.VerifyCodeExpiresAt, user.IsAcceptingMessages,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, "get by email", email)
}

// GetByUsername возвращает пользователя по username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, "get by username", username)
}

// GetByIdentifier возвращает пользователя по username или email.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return r.getOne(ctx, query, "get by identifier", identifier)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, "get by id", id)
}

func (r *UserRepository) getOne(ctx context.Context, query, op string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: %s %w", op, err)
	}
	return &user, nil
}

// VerifiedUsernameExists проверяет, занят ли username подтверждённым аккаунтом.
func (r *UserRepository) VerifiedUsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND is_verified = TRUE)`
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("user repository: verified username exists %w", err)
	}
	return exists, nil
}

// RefreshRegistration перезаписывает пароль и код подтверждения у непроверенного аккаунта.
func (r *UserRepository) RefreshRegistration(ctx context.Context, userID uuid.UUID, passwordHash, code string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, verify_code = $3, verify_code_expires_at = $4, updated_at = NOW()
		WHERE id = $1 AND is_verified = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, userID, passwordHash, code, expiresAt)
	if err != nil {
		return fmt.Errorf("user repository: refresh registration %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkVerified одноразово переводит аккаунт в состояние verified.
func (r *UserRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("user repository: mark verified %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetAcceptingMessages устанавливает флаг приёма сообщений. Операция идемпотентна.
func (r *UserRepository) SetAcceptingMessages(ctx context.Context, userID uuid.UUID, accepting bool) error {
	query := `UPDATE users SET is_accepting_messages = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, accepting)
	if err != nil {
		return fmt.Errorf("user repository: set accepting messages %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateSession сохраняет новую refresh-сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// isUniqueViolation распознаёт ошибку нарушения уникального индекса Postgres (код 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
