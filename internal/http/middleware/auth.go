package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/mystry-backend/internal/http/response"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextAuthKey = "authContext"
)

// AuthMiddleware проверяет JWT access токен и кладёт AuthContext в gin.Context.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		authCtx, err := tokens.ParseAccess(raw)
		if err != nil || authCtx == nil || authCtx.UserID == uuid.Nil {
			response.Unauthorized(c, "токен невалиден")
			c.Abort()
			return
		}

		c.Set(ContextAuthKey, authCtx)
		c.Next()
	}
}
