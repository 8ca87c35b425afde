package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"repair-tracker/pkg/constants"
)

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email", "strict_email":
		return "value is not a valid email address"
	case "phone":
		return "Invalid phone number format. Use digits only, e.g., +905551234567"
	case "device_type":
		return "Invalid device type. Allowed: " + strings.Join(constants.DeviceTypes, ", ")
	case "safe_text":
		return "Invalid characters detected"
	case "safe_description":
		return "Invalid characters detected in description"
	case "status_text":
		return "Invalid characters detected in status message"
	case "tracking_code":
		return "Tracking code format: QS-XXXXXXXX"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte", "lte":
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
