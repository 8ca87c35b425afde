package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"repair-tracker/pkg/constants"
	"repair-tracker/pkg/trackingcode"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex        = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

	markupMarkers = []string{"<", ">", "script", "javascript:"}
	sqlTokens     = []string{"--", ";--", "drop table", "insert into", "delete from", "union select"}
	// в описании допускаем "--", остальные SQL-шаблоны запрещены
	sqlStatements = []string{"drop table", "insert into", "delete from", "union select"}
)

// MaxSpecialCharRatio - доля спецсимволов (не буквы, не цифры, не пробелы),
// выше которой описание отклоняется.
const MaxSpecialCharRatio = 0.3

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"strict_email":     isGoodEmailFormat,
		"phone":            isPhone,
		"device_type":      isDeviceType,
		"safe_text":        isSafeText,
		"safe_description": isSafeDescription,
		"status_text":      isStatusText,
		"tracking_code":    isTrackingCode,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// NormalizePhone убирает пробелы, дефисы и скобки.
func NormalizePhone(raw string) string {
	return phoneSeparators.Replace(strings.TrimSpace(raw))
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(NormalizePhone(fl.Field().String()))
}

func isDeviceType(fl validator.FieldLevel) bool {
	return constants.IsDeviceType(fl.Field().String())
}

func isTrackingCode(fl validator.FieldLevel) bool {
	return trackingcode.Valid(fl.Field().String())
}

func isSafeText(fl validator.FieldLevel) bool {
	return SafeText(fl.Field().String())
}

func isSafeDescription(fl validator.FieldLevel) bool {
	return SafeDescription(fl.Field().String())
}

func isStatusText(fl validator.FieldLevel) bool {
	return StatusText(fl.Field().String())
}

// SafeText проверяет короткие поля: имя, город, бренд, модель.
func SafeText(s string) bool {
	lower := strings.ToLower(s)
	if containsAny(lower, markupMarkers) || containsAny(lower, sqlTokens) {
		return false
	}
	return !eventHandlerRegex.MatchString(s)
}

// SafeDescription пропускает обычную пунктуацию и "--", но отклоняет
// скрипты, SQL-запросы и текст почти из одних символов.
func SafeDescription(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		return false
	}
	if eventHandlerRegex.MatchString(s) {
		return false
	}
	if containsAny(lower, sqlStatements) {
		return false
	}
	return specialCharRatio(s) <= MaxSpecialCharRatio
}

func StatusText(s string) bool {
	return !strings.ContainsAny(s, "<>") && !strings.Contains(strings.ToLower(s), "script")
}

func specialCharRatio(s string) float64 {
	total, special := 0, 0
	for _, r := range s {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
