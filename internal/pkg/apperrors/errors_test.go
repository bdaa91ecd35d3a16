package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsMatchCategory(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", ErrMeetingNotFound)

	assert.True(t, errors.Is(wrapped, ErrMeetingNotFound))
	assert.True(t, errors.Is(wrapped, ErrResourceNotFound))
	assert.False(t, errors.Is(wrapped, ErrTaskNotFound))

	assert.True(t, errors.Is(ErrUsernameAlreadyExists, ErrResourceAlreadyExists))
	assert.True(t, errors.Is(ErrSelfMessage, ErrValidationFailed))
}

func TestMessage(t *testing.T) {
	msg, ok := Message(fmt.Errorf("x: %w", NewForbiddenError("nope")))
	assert.True(t, ok)
	assert.Equal(t, "nope", msg)

	_, ok = Message(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("assignTo", "bad")
	var ce *CustomError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "assignTo", ce.Details["field"])
	assert.True(t, Is(err, ErrBadRequest, ErrValidationFailed))
}
