package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestFormatValidationErrorsReportsEveryField(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Name: "toolong", Email: "nope", Password: "short", Date: "14/10/2026"})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Equal(t, map[string]string{
		"name":     "name must be at most 5 characters",
		"email":    "email must be a valid email address",
		"password": "password must be at least 8 characters",
		"date":     "date must match the format 2006-01-02",
	}, fields)
}

func TestValidatePasses(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sample{Name: "Dr A", Email: "a@x.com", Password: "12345678"}))
}
