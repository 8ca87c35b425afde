package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "repair-tracker/pkg/errors"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator.
// Ошибки валидатора сразу переводятся в 400 с описанием полей.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return ToHttpError(err)
	}
	return nil
}

// New создает и настраивает валидатор
func New() *CustomValidator {
	v := validator.New()

	// имена полей в ошибках берем из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

// ToHttpError превращает ошибки валидатора в HttpError 400. Остальные ошибки возвращаются как есть.
func ToHttpError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: message(fe)})
	}

	detail := "Validation error"
	if len(fields) > 0 {
		detail = fields[0].Field + ": " + fields[0].Message
	}
	return apperrors.NewValidationError(detail, fields)
}
