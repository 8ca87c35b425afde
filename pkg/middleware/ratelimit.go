package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/utils"
)

// Counter - часть кэша, нужная лимитеру.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

// CounterStore считает запросы клиента в окне фиксированной длины.
// Счетчик живет в общем кэше, поэтому лимит переживает рестарт процесса.
type CounterStore struct {
	counter Counter
	limit   int64
	window  time.Duration
	prefix  string
	now     func() time.Time
	logger  *zap.Logger
}

func NewCounterStore(counter Counter, limit int, window time.Duration, logger *zap.Logger) *CounterStore {
	return &CounterStore{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		prefix:  "ratelimit:",
		now:     time.Now,
		logger:  logger,
	}
}

// Allow реализует RateLimiterStore из echo. При сбое кэша запрос пропускается:
// прием заявок не зависит от кэша.
func (s *CounterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	bucket := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", s.prefix, identifier, bucket)

	n, err := s.counter.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("rate limiter cache unavailable", zap.Error(err))
		return true, nil
	}
	if n == 1 {
		if _, err := s.counter.Expire(ctx, key, s.window); err != nil {
			s.logger.Warn("failed to set rate limit window", zap.String("key", key), zap.Error(err))
		}
	}
	return n <= s.limit, nil
}

// NewMemoryStore используется, когда кэш не настроен.
func NewMemoryStore(perMinute int) echomw.RateLimiterStore {
	return echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
}

// RateLimit ограничивает число запросов с одного IP.
func RateLimit(store echomw.RateLimiterStore, logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return utils.ErrorResponse(c, apperrors.ErrBadRequest, logger)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("rate limit exceeded", zap.String("ip", identifier), zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.ErrRateLimited, logger)
		},
	})
}
