package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/pkg/config"
	"repair-tracker/pkg/utils"
)

// Pinger проверяет доступность зависимости. Реализуется *pgxpool.Pool и кэшем.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
)

type HealthController struct {
	app    config.AppConfig
	db     Pinger
	cache  Pinger
	logger *zap.Logger
}

// NewHealthController принимает cache == nil, если Redis не настроен.
func NewHealthController(app config.AppConfig, db Pinger, cache Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{app: app, db: db, cache: cache, logger: logger}
}

// Health всегда отвечает 200; состояние зависимостей видно в полях ответа.
func (c *HealthController) Health(ctx echo.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	res := dto.HealthDTO{
		Status:         "healthy",
		Service:        c.app.Name,
		Version:        c.app.Version,
		Timestamp:      time.Now().UTC(),
		DatabaseStatus: c.ping(pingCtx, "database", c.db),
	}
	if c.cache != nil {
		res.CacheStatus = c.ping(pingCtx, "cache", c.cache)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *HealthController) ping(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return statusDisconnected
	}
	if err := p.Ping(ctx); err != nil {
		c.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		return statusDisconnected
	}
	return statusConnected
}
