package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/mystry-backend/internal/config"
	"github.com/ignatzorin/mystry-backend/internal/http/handlers"
	"github.com/ignatzorin/mystry-backend/internal/http/middleware"
	"github.com/ignatzorin/mystry-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	messageHandler *handlers.MessageHandler,
	suggestionHandler *handlers.SuggestionHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	// Публичные анонимные маршруты с ограничением частоты запросов.
	publicLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/signup", publicLimit, authHandler.Signup)
	api.POST("/verifyCode", authHandler.VerifyCode)
	api.GET("/checkusernameunique", authHandler.CheckUsernameUnique)
	api.POST("/sendMessage", publicLimit, messageHandler.SendMessage)
	api.GET("/suggestmessages", publicLimit, suggestionHandler.SuggestMessages)
	api.GET("/ws", wsHandler.Handle)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/getMessages", messageHandler.GetMessages)
		protected.DELETE("/deletemessage/:messageId", messageHandler.DeleteMessage)
		protected.GET("/acceptmessages", messageHandler.GetAcceptMessages)
		protected.POST("/acceptmessages", messageHandler.SetAcceptMessages)
	}

	return r
}
