package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/mystry-backend/internal/http/response"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// SuggestionHandler предоставляет HTTP слой для подсказок композера.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionHandler создаёт хэндлер.
func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// SuggestMessages обрабатывает GET /api/suggestmessages.
func (h *SuggestionHandler) SuggestMessages(c *gin.Context) {
	suggestion, err := h.suggestions.Suggest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessData(c, suggestion, gin.H{"message": suggestion})
}
