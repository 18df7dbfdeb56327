package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/mystry-backend/internal/ai"
	"github.com/ignatzorin/mystry-backend/internal/config"
	"github.com/ignatzorin/mystry-backend/internal/db"
	httpHandlers "github.com/ignatzorin/mystry-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/mystry-backend/internal/http/router"
	"github.com/ignatzorin/mystry-backend/internal/logger"
	"github.com/ignatzorin/mystry-backend/internal/mailer"
	"github.com/ignatzorin/mystry-backend/internal/repository"
	"github.com/ignatzorin/mystry-backend/internal/service"
	"github.com/ignatzorin/mystry-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	codeMailer := mailer.New(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)

	// Вебсокеты: live-уведомления о новых сообщениях.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	accountService := service.NewAccountService(userRepo, codeMailer, cfg.VerifyCodeTTL)
	authService := service.NewAuthService(userRepo, tokenManager)
	messageService := service.NewMessageService(messageRepo, userRepo, hub)
	seedService := service.NewSeedService(userRepo, messageRepo)

	var suggestionService *service.SuggestionService
	if cfg.AIBaseURL != "" {
		suggestionService = service.NewSuggestionService(ai.NewClient(cfg.AIBaseURL, cfg.AIModel), cfg.SuggestionCacheTTL)
	} else {
		suggestionService = service.NewSuggestionService(nil, cfg.SuggestionCacheTTL)
	}

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(accountService, authService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	suggestionHandler := httpHandlers.NewSuggestionHandler(suggestionService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, messageHandler, suggestionHandler, wsHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
