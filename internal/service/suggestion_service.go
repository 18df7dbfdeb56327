package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ignatzorin/mystry-backend/internal/logger"
	"github.com/ignatzorin/mystry-backend/internal/pkg/apperror"
)

const suggestionCacheKey = "suggestion"

// Suggester генерирует вопрос для композера сообщений.
type Suggester interface {
	SuggestMessage(ctx context.Context) (string, error)
}

// SuggestionService выдаёт подсказки для анонимных сообщений. Ответ AI сервиса
// коротко кэшируется, чтобы всплеск открытий композера не превращался во
// всплеск обращений к внешнему сервису.
type SuggestionService struct {
	ai    Suggester
	cache *gocache.Cache
}

// NewSuggestionService создаёт сервис подсказок. ai может быть nil, если сервис не сконфигурирован.
func NewSuggestionService(ai Suggester, cacheTTL time.Duration) *SuggestionService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &SuggestionService{
		ai:    ai,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Suggest возвращает один открытый вопрос. Любая проблема с внешним сервисом
// сворачивается в единое условие "подсказка недоступна" и никогда не мешает
// самой отправке сообщений.
func (s *SuggestionService) Suggest(ctx context.Context) (string, error) {
	if s.ai == nil {
		return "", apperror.New(apperror.ErrCodeSuggestion, "сервис подсказок не настроен")
	}

	if cached, ok := s.cache.Get(suggestionCacheKey); ok {
		return cached.(string), nil
	}

	suggestion, err := s.ai.SuggestMessage(ctx)
	if err != nil || suggestion == "" {
		if logger.Log != nil {
			logger.Log.Warnf("suggestion service: AI сервис недоступен: %v", err)
		}
		return "", apperror.Wrap(err, apperror.ErrCodeSuggestion, "подсказка временно недоступна")
	}

	s.cache.Set(suggestionCacheKey, suggestion, gocache.DefaultExpiration)

	return suggestion, nil
}
