package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/mystry-backend/internal/logger"
	"github.com/ignatzorin/mystry-backend/internal/models"
	"github.com/ignatzorin/mystry-backend/internal/pkg/apperror"
	"github.com/ignatzorin/mystry-backend/internal/repository"
	"github.com/ignatzorin/mystry-backend/internal/validation"
)

// MessageRepo описывает операции хранилища над сообщениями.
type MessageRepo interface {
	Append(ctx context.Context, msg *models.Message) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
}

// RecipientRepo описывает доступ к аккаунтам получателей.
type RecipientRepo interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetAcceptingMessages(ctx context.Context, userID uuid.UUID, accepting bool) error
}

// MessageNotifier уведомляет получателя о новом сообщении (WebSocket).
type MessageNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// MessageService инкапсулирует приём, выдачу и модерацию анонимных сообщений.
type MessageService struct {
	messages MessageRepo
	users    RecipientRepo
	notifier MessageNotifier
}

// NewMessageService создаёт сервис сообщений. notifier может быть nil.
func NewMessageService(messages MessageRepo, users RecipientRepo, notifier MessageNotifier) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		notifier: notifier,
	}
}

// Send принимает анонимное сообщение для username. Аутентификация не требуется,
// отправитель нигде не фиксируется.
func (s *MessageService) Send(ctx context.Context, username, content string) error {
	if err := validation.ValidateMessageContent(content); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить пользователя")
	}

	if !user.IsAcceptingMessages {
		return apperror.ErrMessagesDisabled
	}

	msg := &models.Message{
		UserID:  user.ID,
		Content: content,
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить сообщение")
	}

	// Лучшая попытка: получатель с открытым дашбордом увидит сообщение сразу.
	if s.notifier != nil {
		if err := s.notifier.BroadcastToUser(user.ID, "new_message", msg); err != nil && logger.Log != nil {
			logger.Log.WithField("user_id", user.ID).Warnf("message service: не удалось отправить WS уведомление: %v", err)
		}
	}

	return nil
}

// List возвращает сообщения пользователя, новые первыми. Пустой список — это
// нормальный результат, а не ошибка, в том числе когда приём сообщений выключен.
func (s *MessageService) List(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	messages, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить сообщения")
	}
	return messages, nil
}

// Delete удаляет одно сообщение из коллекции владельца. Повторное удаление
// того же идентификатора возвращает NotFound.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	if err := s.messages.Delete(ctx, userID, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return apperror.ErrMessageNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось удалить сообщение")
	}
	return nil
}

// AcceptingState возвращает текущее значение флага приёма сообщений.
func (s *MessageService) AcceptingState(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, apperror.ErrUserNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить пользователя")
	}
	return user.IsAcceptingMessages, nil
}

// SetAcceptingState устанавливает флаг приёма сообщений. Идемпотентна.
func (s *MessageService) SetAcceptingState(ctx context.Context, userID uuid.UUID, accepting bool) error {
	if err := s.users.SetAcceptingMessages(ctx, userID, accepting); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить настройку")
	}
	return nil
}
