package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// registerNullTypes учит валидатор смотреть внутрь null-типов фильтров.
// Невалидное значение превращается в nil, чтобы срабатывал omitempty.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch val := field.Interface().(type) {
		case null.String:
			if val.Valid {
				return val.String
			}
		case null.Int:
			if val.Valid {
				return val.Int
			}
		case null.Time:
			if val.Valid {
				return val.Time
			}
		}
		return nil
	}, null.String{}, null.Int{}, null.Time{})
}
