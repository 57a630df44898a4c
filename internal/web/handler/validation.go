package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages flattens validator errors into caller facing messages.
func ValidationMessages(err error) []string {
	var validationErrors validator.ValidationErrors

	errors.As(err, &validationErrors)

	messages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		messages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return messages
}
