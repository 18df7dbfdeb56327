package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/mystry-backend/internal/models"
)

// SeedService генерирует фейковые данные для разработки.
type SeedService struct {
	users    AccountRepository
	messages MessageRepo
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(users AccountRepository, messages MessageRepo) *SeedService {
	return &SeedService{
		users:    users,
		messages: messages,
	}
}

// SeedData создаёт подтверждённых пользователей с пачкой входящих сообщений.
// Все сидовые аккаунты получают пароль Password123.
func (s *SeedService) SeedData(ctx context.Context, numUsers, messagesPerUser int) error {
	if numUsers <= 0 {
		numUsers = 5
	}
	if messagesPerUser <= 0 {
		messagesPerUser = 4
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed service: failed to hash password: %w", err)
	}

	for i := 0; i < numUsers; i++ {
		username := seedUsername()

		user := &models.User{
			Username:            username,
			Email:               strings.ToLower(username) + "@" + gofakeit.DomainName(),
			PasswordHash:        string(passHash),
			IsVerified:          true,
			IsAcceptingMessages: true,
		}

		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed service: failed to create user: %w", err)
		}

		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return fmt.Errorf("seed service: failed to verify user: %w", err)
		}

		for j := 0; j < messagesPerUser; j++ {
			msg := &models.Message{
				UserID:  user.ID,
				Content: gofakeit.Question(),
			}
			if err := s.messages.Append(ctx, msg); err != nil {
				return fmt.Errorf("seed service: failed to create message: %w", err)
			}
		}
	}

	return nil
}

// seedUsername собирает username, проходящий валидацию: латиница, цифры, подчёркивание.
func seedUsername() string {
	name := gofakeit.Username()
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if len(name) > 16 {
		name = name[:16]
	}
	return name + gofakeit.DigitN(3)
}
