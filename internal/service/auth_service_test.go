package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/mystry-backend/internal/models"
	"github.com/ignatzorin/mystry-backend/internal/pkg/apperror"
	"github.com/ignatzorin/mystry-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	users    []*models.User
	sessions map[string]*models.Session
}

func newMockAuthRepository(users ...*models.User) *mockAuthRepository {
	return &mockAuthRepository{
		users:    users,
		sessions: make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func testTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func verifiedUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("не удалось захешировать пароль: %v", err)
	}
	return &models.User{
		ID:                  uuid.New(),
		Username:            username,
		Email:               email,
		PasswordHash:        string(hash),
		IsVerified:          true,
		IsAcceptingMessages: true,
	}
}

func TestAuthService_LoginByUsernameAndEmail(t *testing.T) {
	user := verifiedUser(t, "alice", "a@x.com", "Password1")
	repo := newMockAuthRepository(user)
	service := NewAuthService(repo, testTokenManager())

	ctx := context.Background()
	for _, identifier := range []string{"alice", "a@x.com"} {
		result, err := service.Login(ctx, LoginInput{Identifier: identifier, Password: "Password1"}, nil)
		if err != nil {
			t.Fatalf("вход по %q вернул ошибку: %v", identifier, err)
		}
		if result.User.ID != user.ID {
			t.Fatalf("вернулся не тот пользователь")
		}
		if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
			t.Fatalf("токены не должны быть пустыми")
		}
		if _, ok := repo.sessions[result.TokenPair.RefreshToken]; !ok {
			t.Fatalf("сессия должна быть сохранена")
		}
	}
}

func TestAuthService_LoginRejectsUnverified(t *testing.T) {
	user := verifiedUser(t, "alice", "a@x.com", "Password1")
	user.IsVerified = false
	service := NewAuthService(newMockAuthRepository(user), testTokenManager())

	_, err := service.Login(context.Background(), LoginInput{Identifier: "alice", Password: "Password1"}, nil)
	if apperror.Code(err) != apperror.ErrCodeNotVerified {
		t.Fatalf("ожидался NOT_VERIFIED, получили %v", err)
	}
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	user := verifiedUser(t, "alice", "a@x.com", "Password1")
	service := NewAuthService(newMockAuthRepository(user), testTokenManager())
	ctx := context.Background()

	// Неизвестный identifier и неверный пароль выглядят одинаково снаружи.
	_, err := service.Login(ctx, LoginInput{Identifier: "nobody", Password: "Password1"}, nil)
	if apperror.Code(err) != apperror.ErrCodeUnauthorized {
		t.Fatalf("ожидался UNAUTHORIZED для неизвестного пользователя, получили %v", err)
	}

	_, err = service.Login(ctx, LoginInput{Identifier: "alice", Password: "Wrong1234"}, nil)
	if apperror.Code(err) != apperror.ErrCodeUnauthorized {
		t.Fatalf("ожидался UNAUTHORIZED для неверного пароля, получили %v", err)
	}
}

func TestAuthService_LoginValidatesInput(t *testing.T) {
	service := NewAuthService(newMockAuthRepository(), testTokenManager())

	_, err := service.Login(context.Background(), LoginInput{Identifier: "  ", Password: ""}, nil)
	if apperror.Code(err) != apperror.ErrCodeValidation {
		t.Fatalf("ожидалась ошибка валидации, получили %v", err)
	}
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	user := verifiedUser(t, "alice", "a@x.com", "Password1")
	repo := newMockAuthRepository(user)
	service := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	result, err := service.Login(ctx, LoginInput{Identifier: "alice", Password: "Password1"}, map[string]string{
		"user_agent": "test-agent",
		"ip":         "127.0.0.1",
	})
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}
	oldToken := result.TokenPair.RefreshToken

	pair, err := service.Refresh(ctx, oldToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}

	if _, ok := repo.sessions[oldToken]; ok {
		t.Fatalf("старая сессия должна быть удалена")
	}
	if _, ok := repo.sessions[pair.RefreshToken]; !ok {
		t.Fatalf("новая сессия должна быть сохранена")
	}
}

func TestAuthService_RefreshRejectsGarbage(t *testing.T) {
	service := NewAuthService(newMockAuthRepository(), testTokenManager())

	_, err := service.Refresh(context.Background(), "not-a-token", nil)
	if apperror.Code(err) != apperror.ErrCodeUnauthorized {
		t.Fatalf("ожидался UNAUTHORIZED, получили %v", err)
	}
}
