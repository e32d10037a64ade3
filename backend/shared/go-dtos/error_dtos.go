// backend/shared/go-dtos/error_dtos.go
package dtos

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail is a shared DTO for structured validation error responses.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FormatValidationErrors converts validator errors into a user-friendly format.
// Errors that are not validator.ValidationErrors yield a single generic detail.
func FormatValidationErrors(err error) []ValidationErrorDetail {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []ValidationErrorDetail{{Message: err.Error(), Code: "validation_error"}}
	}

	details := make([]ValidationErrorDetail, 0, len(errs))
	for _, fe := range errs {
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", fe.Field())
		case "required_without":
			message = fmt.Sprintf("Field '%s' is required when '%s' is absent", fe.Field(), fe.Param())
		case "excluded_with":
			message = fmt.Sprintf("Field '%s' must not be combined with '%s'", fe.Field(), fe.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", fe.Field(), fe.Param())
		case "gte", "min":
			message = fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param())
		case "lte", "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s", fe.Field(), fe.Param())
		case "len":
			message = fmt.Sprintf("Field '%s' must be exactly %s characters", fe.Field(), fe.Param())
		case "alphanum":
			message = fmt.Sprintf("Field '%s' must be alphanumeric", fe.Field())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
		details = append(details, ValidationErrorDetail{
			Field:   fe.Field(),
			Message: message,
			Code:    "validation_" + fe.Tag(),
		})
	}
	return details
}
