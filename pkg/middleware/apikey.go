package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/pkg/constants"
	"repair-tracker/pkg/utils"
)

// KeyAuthorizer проверяет общий секрет администратора.
type KeyAuthorizer interface {
	Authorize(providedKey string) error
}

// AdminKey отклоняет запрос до чтения тела и до любых записей в БД,
// если заголовок X-API-KEY отсутствует или неверен.
func AdminKey(gate KeyAuthorizer, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate.Authorize(c.Request().Header.Get(constants.APIKeyHeader)); err != nil {
				logger.Warn("admin request rejected",
					zap.String("path", c.Path()),
					zap.String("ip", c.RealIP()),
					zap.Error(err),
				)
				return utils.ErrorResponse(c, err, logger)
			}
			return next(c)
		}
	}
}
