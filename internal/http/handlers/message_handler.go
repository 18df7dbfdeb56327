package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/mystry-backend/internal/http/handlers/common"
	"github.com/ignatzorin/mystry-backend/internal/http/response"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// MessageHandler предоставляет HTTP слой для приёма, выдачи и модерации сообщений.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessage обрабатывает POST /api/sendMessage. Эндпоинт публичный и анонимный.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username и content обязательны")
		return
	}

	if err := h.messages.Send(c.Request.Context(), req.Username, req.Content); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "сообщение отправлено")
}

// GetMessages обрабатывает GET /api/getMessages. Сообщения идут новыми вперёд.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	messages, err := h.messages.List(c.Request.Context(), auth.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessData(c, "сообщения получены", gin.H{"messages": messages})
}

// DeleteMessage обрабатывает DELETE /api/deletemessage/:messageId.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	messageID, err := common.ParseUUIDParam(c, "messageId")
	if err != nil {
		response.BadRequest(c, "неверный идентификатор сообщения")
		return
	}

	if err := h.messages.Delete(c.Request.Context(), auth.UserID, messageID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "сообщение удалено")
}

// GetAcceptMessages обрабатывает GET /api/acceptmessages.
func (h *MessageHandler) GetAcceptMessages(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	accepting, err := h.messages.AcceptingState(c.Request.Context(), auth.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessData(c, "настройка получена", gin.H{"isAcceptingMessage": accepting})
}

// SetAcceptMessages обрабатывает POST /api/acceptmessages.
func (h *MessageHandler) SetAcceptMessages(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	var req struct {
		AcceptMessages *bool `json:"acceptMessages" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.AcceptMessages == nil {
		response.BadRequest(c, "acceptMessages обязателен")
		return
	}

	if err := h.messages.SetAcceptingState(c.Request.Context(), auth.UserID, *req.AcceptMessages); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "настройка обновлена")
}
