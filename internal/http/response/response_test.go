package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(credentials{Email: "not-an-email", Password: "123"})
	got := ValidationError(err)

	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "field Email must be a valid email, field Password must be at least 6 characters long", got.Error)

	err = v.Struct(credentials{})
	assert.Equal(t, "field Email is a required field, field Password is a required field", ValidationError(err).Error)
}

func TestValidationError_PlainError(t *testing.T) {
	got := ValidationError(errors.New("boom"))
	assert.Equal(t, Error("boom"), got)
}

func TestOKWithData(t *testing.T) {
	got := OKWithData(map[string]int{"created": 2})
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, map[string]int{"created": 2}, got.Data)
	assert.Nil(t, OK().Data)
}
