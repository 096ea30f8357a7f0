package httpx

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateVar validates a single value; field names the value in messages.
func ValidateVar(value interface{}, field, tag string) []ValidationError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	return translate(err, field)
}

func translate(err error, fieldOverride string) []ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: fieldOverride, Message: err.Error()}}
	}

	var errors []ValidationError
	for _, err := range verrs {
		field := err.Field()
		if fieldOverride != "" {
			field = fieldOverride
		}
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "printascii":
			message = fmt.Sprintf("%s must contain printable ASCII characters only", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, param)
		case "gt", "gte":
			message = fmt.Sprintf("%s must be greater than %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := field
		if fieldName != "" {
			fieldName = strings.ToLower(field[:1]) + field[1:]
		}
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: message,
		})
	}

	return errors
}
