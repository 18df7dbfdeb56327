package common

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/mystry-backend/internal/http/middleware"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

var (
	// ErrNoAuthContext возвращается, когда в контексте запроса нет аутентификации.
	ErrNoAuthContext = errors.New("контекст аутентификации отсутствует")

	// ErrInvalidUUID возвращается при ошибке разбора UUID.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentAuth извлекает AuthContext из gin.Context.
func CurrentAuth(c *gin.Context) (*service.AuthContext, error) {
	raw, exists := c.Get(middleware.ContextAuthKey)
	if !exists {
		return nil, ErrNoAuthContext
	}

	authCtx, ok := raw.(*service.AuthContext)
	if !ok || authCtx == nil {
		return nil, ErrNoAuthContext
	}

	return authCtx, nil
}

// ParseUUIDParam парсит UUID из URL параметра.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, ErrInvalidUUID
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}
