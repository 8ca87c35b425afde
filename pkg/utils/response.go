package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "repair-tracker/pkg/errors"
)

// ErrorBody - формат JSON для всех ошибок API.
type ErrorBody struct {
	Detail string                 `json:"detail"`
	Errors []apperrors.FieldError `json:"errors,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, code int) error {
	return ctx.JSON(code, body)
}

// ErrorResponse пишет безопасное сообщение клиенту и логирует внутреннюю причину.
// Для 5xx наружу уходит только общий текст.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code, body := Resolve(err)

	if code >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.Int("code", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		var httpErr *apperrors.HttpError
		if errors.As(err, &httpErr) && len(httpErr.Context) > 0 {
			fields = append(fields, zap.Any("context", httpErr.Context))
		}
		logger.Error("HTTP Error", fields...)
	} else {
		logger.Debug("request rejected", zap.Int("code", code), zap.Error(err))
	}

	if c.Response().Committed {
		return nil
	}
	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	return c.JSON(code, body)
}

// Resolve сопоставляет err с кодом ответа и телом.
func Resolve(err error) (int, ErrorBody) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError && httpErr.Code != http.StatusServiceUnavailable {
			return httpErr.Code, ErrorBody{Detail: internalErrorMessage}
		}
		return httpErr.Code, ErrorBody{Detail: httpErr.Message, Errors: httpErr.Fields}
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]apperrors.FieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields = append(fields, apperrors.FieldError{Field: e.Field(), Message: "failed on '" + e.Tag() + "'"})
		}
		return http.StatusBadRequest, ErrorBody{Detail: "Validation error", Errors: fields}
	}

	for _, m := range ErrorList {
		if errors.Is(err, m.err) {
			return m.code, ErrorBody{Detail: m.message}
		}
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code >= http.StatusInternalServerError {
			return echoErr.Code, ErrorBody{Detail: internalErrorMessage}
		}
		msg := http.StatusText(echoErr.Code)
		if s, ok := echoErr.Message.(string); ok && s != "" {
			msg = s
		}
		return echoErr.Code, ErrorBody{Detail: msg}
	}

	return http.StatusInternalServerError, ErrorBody{Detail: internalErrorMessage}
}

// HTTPErrorHandler заменяет обработчик echo по умолчанию, чтобы ошибки
// роутера (404, 405, лимит тела) имели тот же формат, что и в контроллерах.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if respErr := ErrorResponse(c, err, logger); respErr != nil {
			logger.Error("failed to write error response", zap.Error(respErr))
		}
	}
}
