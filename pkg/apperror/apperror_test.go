package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedSentinel(t *testing.T) {
	sentinel := Domain("role not found")
	wrapped := fmt.Errorf("register: %w", sentinel.Wrap(errors.New("id 42")))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, Domain("something else"))
	assert.Equal(t, KindDomain, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(map[string]string{"email": "email is required"})

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "email is required", err.Fields["email"])
}
