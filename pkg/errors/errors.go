package errors

import (
	"errors"
	"fmt"
)

var (
	// Общие
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("resource already exists")

	// Администратор
	ErrInvalidAPIKey         = errors.New("invalid API key")
	ErrAdminKeyNotConfigured = errors.New("admin API key not configured")

	// Трекинг
	ErrInvalidTrackingCode = errors.New("invalid tracking code format")
	ErrQuoteNotFound       = fmt.Errorf("tracking code not found: %w", ErrNotFound)
	ErrNoStatusHistory     = fmt.Errorf("no status updates found: %w", ErrNotFound)

	ErrRateLimited = errors.New("too many requests")
)

// FieldError описывает одно невалидное поле запроса.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HttpError несет код ответа и сообщение, которое можно показать клиенту.
// Err - внутренняя причина, она пишется в лог, но не в ответ.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Fields  []FieldError
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewValidationError(message string, fields []FieldError) *HttpError {
	return &HttpError{Code: 400, Message: message, Err: ErrBadRequest, Fields: fields}
}
