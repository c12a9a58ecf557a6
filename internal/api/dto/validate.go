package dto

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

var validate = validator.New()

// Validate checks a request struct against its tags and converts failures
// into a validation error with a field-level detail list.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError(fe))
	}
	return apperrors.NewValidationError("validation failed", details)
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
