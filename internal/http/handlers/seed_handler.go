package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/mystry-backend/internal/http/response"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// SeedHandler наполняет базу фейковыми данными. Доступен только в development.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт хэндлер.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed обрабатывает POST /api/seed?users=&messages=.
func (h *SeedHandler) Seed(c *gin.Context) {
	users := parseIntQuery(c, "users", 5)
	messages := parseIntQuery(c, "messages", 4)

	if err := h.seed.SeedData(c.Request.Context(), users, messages); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "тестовые данные созданы, пароль сидовых аккаунтов: Password123")
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
