package exceptions

import (
	"labbridge-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		firstErr := validationErrors[0]
		fieldName := strings.ToLower(firstErr.Field())
		switch firstErr.Tag() {
		case "required":
			return fieldName + " is required"
		case "min":
			return fieldName + " must be at least " + firstErr.Param()
		case "max":
			return fieldName + " must be at most " + firstErr.Param()
		default:
			return fieldName + " is invalid"
		}
	}

	return constvars.ErrClientCannotProcessRequest
}
