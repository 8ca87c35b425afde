package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestID присваивает запросу уникальный ID и кладет в echo-контекст
// логгер с этим ID.
func RequestID(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.New().String()
				c.Request().Header.Set(HeaderRequestID, requestID)
			}
			c.Response().Header().Set(HeaderRequestID, requestID)

			c.Set(loggerKey, logger.With(zap.String("request_id", requestID)))
			return next(c)
		}
	}
}

// LoggerFrom возвращает логгер запроса или fallback, если RequestID не подключен.
func LoggerFrom(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}
