package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/mystry-backend/internal/http/response"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации, верификации и входа.
type AuthHandler struct {
	accounts *service.AccountService
	auth     *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(accounts *service.AccountService, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: auth}
}

// Signup обрабатывает POST /api/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username, email и password обязательны")
		return
	}

	if err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "письмо с кодом подтверждения отправлено")
}

// VerifyCode обрабатывает POST /api/verifyCode.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Code     string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username и code обязательны")
		return
	}

	if err := h.accounts.Verify(c.Request.Context(), req.Username, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "аккаунт успешно подтверждён")
}

// CheckUsernameUnique обрабатывает GET /api/checkusernameunique?username=.
func (h *AuthHandler) CheckUsernameUnique(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "параметр username обязателен")
		return
	}

	available, err := h.accounts.IsUsernameAvailable(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !available {
		response.SuccessData(c, "username уже занят", gin.H{"available": false})
		return
	}

	response.SuccessData(c, "username свободен", gin.H{"available": true})
}

// Login обрабатывает POST /api/auth/login. Identifier — username или email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "identifier и password обязательны")
		return
	}

	meta := map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	}, meta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessData(c, "вход выполнен", gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token обязателен")
		return
	}

	meta := map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}

	tokenPair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, meta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessData(c, "токены обновлены", gin.H{"tokens": tokenPair})
}
