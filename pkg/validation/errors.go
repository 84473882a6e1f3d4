package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TranslateError converts a binding error into field-level errors. Errors
// that are not validator.ValidationErrors (malformed JSON, type mismatches)
// collapse into a single generic entry.
func TranslateError(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "body", Message: "request body is invalid"}}
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   fe.Field(),
			Message: DefaultMessage(fe.Field(), fe.Tag()),
		})
	}
	return fieldErrs
}
