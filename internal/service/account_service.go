package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/mystry-backend/internal/logger"
	"github.com/ignatzorin/mystry-backend/internal/models"
	"github.com/ignatzorin/mystry-backend/internal/pkg/apperror"
	"github.com/ignatzorin/mystry-backend/internal/repository"
	"github.com/ignatzorin/mystry-backend/internal/validation"
)

// AccountRepository описывает зависимости AccountService от слоя хранилища.
type AccountRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	VerifiedUsernameExists(ctx context.Context, username string) (bool, error)
	RefreshRegistration(ctx context.Context, userID uuid.UUID, passwordHash, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

// CodeSender отправляет код подтверждения на почту.
type CodeSender interface {
	SendVerificationCode(recipient, username, code string) error
}

// AccountService инкапсулирует регистрацию и верификацию аккаунтов.
type AccountService struct {
	repo    AccountRepository
	mailer  CodeSender
	codeTTL time.Duration
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewAccountService создаёт сервис аккаунтов.
func NewAccountService(repo AccountRepository, mailer CodeSender, codeTTL time.Duration) *AccountService {
	if codeTTL <= 0 {
		codeTTL = time.Hour
	}
	return &AccountService{
		repo:    repo,
		mailer:  mailer,
		codeTTL: codeTTL,
	}
}

// Register создаёт нового пользователя или перевыпускает код для непроверенного дубля email.
// Письмо отправляется после записи в базу: если отправка упала, аккаунт уже сохранён,
// и пользователь получит новый код при повторной регистрации.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	usernameTaken, err := s.repo.VerifiedUsernameExists(ctx, in.Username)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить username")
	}
	if usernameTaken {
		return apperror.New(apperror.ErrCodeConflict, "username уже занят")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	code := generateCode()
	expiresAt := time.Now().Add(s.codeTTL)

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsVerified {
			return apperror.New(apperror.ErrCodeConflict, "пользователь с таким email уже существует")
		}
		// Непроверенный дубль: перезаписываем пароль и выдаём свежий код.
		if err := s.repo.RefreshRegistration(ctx, existing.ID, string(passHash), code, expiresAt); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить регистрацию")
		}
		// Письмо уходит на username существующей записи.
		in.Username = existing.Username
	case errors.Is(err, repository.ErrUserNotFound):
		user := &models.User{
			Username:            in.Username,
			Email:               email,
			PasswordHash:        string(passHash),
			IsVerified:          false,
			VerifyCode:          &code,
			VerifyCodeExpiresAt: &expiresAt,
			IsAcceptingMessages: true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.New(apperror.ErrCodeConflict, "username или email уже заняты")
			}
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать пользователя")
		}
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить email")
	}

	if err := s.mailer.SendVerificationCode(email, in.Username, code); err != nil {
		// Аккаунт уже сохранён; откат не делаем, код можно перевыпустить повторной регистрацией.
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"email": email,
				"error": err.Error(),
			}).Error("account service: не удалось отправить письмо с кодом")
		}
		return apperror.Wrap(err, apperror.ErrCodeEmailDelivery, "не удалось отправить письмо с кодом подтверждения")
	}

	return nil
}

// Verify проверяет код и одноразово переводит аккаунт в состояние verified.
func (s *AccountService) Verify(ctx context.Context, username, code string) error {
	if err := validation.ValidateVerifyCode(code); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить пользователя")
	}

	if user.IsVerified {
		return apperror.ErrAlreadyVerified
	}

	if user.VerifyCode == nil || *user.VerifyCode != code {
		return apperror.ErrInvalidVerifyCode
	}

	if user.VerifyCodeExpiresAt == nil || !time.Now().Before(*user.VerifyCodeExpiresAt) {
		return apperror.ErrVerifyCodeExpired
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось подтвердить аккаунт")
	}

	return nil
}

// IsUsernameAvailable отвечает, свободен ли username среди подтверждённых аккаунтов.
func (s *AccountService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	taken, err := s.repo.VerifiedUsernameExists(ctx, username)
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить username")
	}

	return !taken, nil
}

// generateCode выдаёт случайный шестизначный числовой код.
func generateCode() string {
	var b [4]byte
	rand.Read(b[:])
	n := binary.BigEndian.Uint32(b[:]) % 1000000
	return fmt.Sprintf("%06d", n)
}
