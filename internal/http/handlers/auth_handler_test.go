package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/mystry-backend/internal/models"
	"github.com/ignatzorin/mystry-backend/internal/repository"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// stubAccountRepo реализует service.AccountRepository поверх карты в памяти.
type stubAccountRepo struct {
	users map[string]*models.User
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{users: make(map[string]*models.User)}
}

func (s *stubAccountRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := s.users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	s.users[user.Username] = user
	return nil
}

func (s *stubAccountRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAccountRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAccountRepo) VerifiedUsernameExists(ctx context.Context, username string) (bool, error) {
	user, ok := s.users[username]
	return ok && user.IsVerified, nil
}

func (s *stubAccountRepo) RefreshRegistration(ctx context.Context, userID uuid.UUID, passwordHash, code string, expiresAt time.Time) error {
	for _, user := range s.users {
		if user.ID == userID && !user.IsVerified {
			user.PasswordHash = passwordHash
			user.VerifyCode = &code
			user.VerifyCodeExpiresAt = &expiresAt
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (s *stubAccountRepo) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	for _, user := range s.users {
		if user.ID == userID {
			user.IsVerified = true
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// stubCodeSender запоминает последний отправленный код.
type stubCodeSender struct {
	lastCode string
}

func (s *stubCodeSender) SendVerificationCode(recipient, username, code string) error {
	s.lastCode = code
	return nil
}

func accountTestHandler() (*AuthHandler, *stubAccountRepo, *stubCodeSender) {
	repo := newStubAccountRepo()
	sender := &stubCodeSender{}
	accounts := service.NewAccountService(repo, sender, time.Hour)
	return NewAuthHandler(accounts, nil), repo, sender
}

func postJSON(r *gin.Engine, path string, payload gin.H) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SignupAndVerifyFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, sender := accountTestHandler()

	r := gin.New()
	r.POST("/api/signup", handler.Signup)
	r.POST("/api/verifyCode", handler.VerifyCode)

	w := postJSON(r, "/api/signup", gin.H{
		"username": "alice",
		"email":    "a@x.com",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
	assert.NotEmpty(t, sender.lastCode)

	w = postJSON(r, "/api/verifyCode", gin.H{
		"username": "alice",
		"code":     sender.lastCode,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.users["alice"].IsVerified)

	// Повторная верификация отклоняется.
	w = postJSON(r, "/api/verifyCode", gin.H{
		"username": "alice",
		"code":     sender.lastCode,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestAuthHandler_Signup_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := accountTestHandler()

	r := gin.New()
	r.POST("/api/signup", handler.Signup)

	w := postJSON(r, "/api/signup", gin.H{
		"username": "alice",
		"email":    "a@x.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := accountTestHandler()

	r := gin.New()
	r.POST("/api/signup", handler.Signup)

	w := postJSON(r, "/api/signup", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_VerifiedConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, sender := accountTestHandler()

	r := gin.New()
	r.POST("/api/signup", handler.Signup)
	r.POST("/api/verifyCode", handler.VerifyCode)

	postJSON(r, "/api/signup", gin.H{"username": "alice", "email": "a@x.com", "password": "Password1"})
	postJSON(r, "/api/verifyCode", gin.H{"username": "alice", "code": sender.lastCode})
	assert.True(t, repo.users["alice"].IsVerified)

	w := postJSON(r, "/api/signup", gin.H{"username": "alice", "email": "b@x.com", "password": "Password1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_CheckUsernameUnique(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, sender := accountTestHandler()

	r := gin.New()
	r.GET("/api/checkusernameunique", handler.CheckUsernameUnique)
	r.POST("/api/signup", handler.Signup)
	r.POST("/api/verifyCode", handler.VerifyCode)

	// Без параметра — 400.
	req, _ := http.NewRequest("GET", "/api/checkusernameunique", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Свободный username.
	req, _ = http.NewRequest("GET", "/api/checkusernameunique?username=alice", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, true, data["available"])

	// После подтверждения — занят, но ответ по-прежнему успешный.
	postJSON(r, "/api/signup", gin.H{"username": "alice", "email": "a@x.com", "password": "Password1"})
	postJSON(r, "/api/verifyCode", gin.H{"username": "alice", "code": sender.lastCode})

	req, _ = http.NewRequest("GET", "/api/checkusernameunique?username=alice", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	data = envelope.Data.(map[string]interface{})
	assert.Equal(t, false, data["available"])
}

// stubAuthRepo реализует service.AuthRepository для логин-тестов.
type stubAuthRepo struct {
	user     *models.User
	sessions map[string]*models.Session
}

func (s *stubAuthRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if s.user != nil && (s.user.Username == identifier || s.user.Email == identifier) {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	s.sessions[session.RefreshToken] = session
	return nil
}

func (s *stubAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(s.sessions, refreshToken)
	return nil
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokenManager := service.NewTokenManager("a", "r", 15*time.Minute, time.Hour)
	auth := service.NewAuthService(&stubAuthRepo{sessions: map[string]*models.Session{}}, tokenManager)
	handler := NewAuthHandler(nil, auth)

	r := gin.New()
	r.POST("/api/auth/login", handler.Login)

	w := postJSON(r, "/api/auth/login", gin.H{"identifier": "ghost", "password": "Password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestAuthHandler_Refresh_BadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokenManager := service.NewTokenManager("a", "r", 15*time.Minute, time.Hour)
	auth := service.NewAuthService(&stubAuthRepo{sessions: map[string]*models.Session{}}, tokenManager)
	handler := NewAuthHandler(nil, auth)

	r := gin.New()
	r.POST("/api/auth/refresh", handler.Refresh)

	w := postJSON(r, "/api/auth/refresh", gin.H{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
