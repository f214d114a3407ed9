package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Start    string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	Internal string `json:"-" validate:"omitempty,max=3"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := loginForm{Email: "ana@example.com", Password: "secret", Start: "2024-03-01"}
		assert.NoError(t, ValidateStruct(&s))
	})

	t.Run("fields are reported by json name", func(t *testing.T) {
		s := loginForm{Email: "not-an-email"}

		err := ValidateStruct(&s)
		require.Error(t, err)
		require.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "email must be a valid email", fields["email"])
		assert.Equal(t, "password is required", fields["password"])
		assert.NotContains(t, fields, "Email")
	})

	t.Run("bad date layout", func(t *testing.T) {
		s := loginForm{Email: "ana@example.com", Password: "x", Start: "03/01/2024"}

		fields := GetValidationFields(ValidateStruct(&s))
		assert.Equal(t, "startDate must be a date formatted as 2006-01-02", fields["startDate"])
	})
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name      string
		uuid      string
		wantError bool
	}{
		{name: "valid UUID", uuid: "550e8400-e29b-41d4-a716-446655440000"},
		{name: "wrong format", uuid: "not-a-uuid", wantError: true},
		{name: "empty string", uuid: "", wantError: true},
		{name: "missing parts", uuid: "550e8400-e29b-41d4", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.uuid)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantError bool
	}{
		{name: "valid email", email: "ana@example.com"},
		{name: "plus addressing", email: "ana+hr@example.co"},
		{name: "missing at", email: "ana.example.com", wantError: true},
		{name: "missing domain", email: "ana@", wantError: true},
		{name: "short tld", email: "ana@example.c", wantError: true},
		{name: "empty", email: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorHelpers(t *testing.T) {
	fields := map[string]string{"field1": "error1"}
	err := &ValidationError{Message: "Test validation error", Fields: fields}

	assert.Equal(t, "Test validation error", err.Error())
	assert.True(t, IsValidationError(err))
	assert.Equal(t, fields, GetValidationFields(err))

	assert.False(t, IsValidationError(assert.AnError))
	assert.Nil(t, GetValidationFields(assert.AnError))
}
