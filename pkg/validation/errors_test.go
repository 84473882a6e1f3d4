package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestTranslateError_FieldErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(sampleRequest{Email: "not-an-email", Password: "abc"})
	require.Error(t, err)

	fieldErrs := TranslateError(err)
	require.Len(t, fieldErrs, 2)

	byField := map[string]string{}
	for _, fe := range fieldErrs {
		byField[fe.Field] = fe.Message
	}
	assert.Contains(t, byField["Email"], "email")
	assert.NotEmpty(t, byField["Password"])
}

func TestTranslateError_NonValidatorError(t *testing.T) {
	fieldErrs := TranslateError(errors.New("unexpected EOF"))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "body", fieldErrs[0].Field)
}
