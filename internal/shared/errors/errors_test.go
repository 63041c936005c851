package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("upsert ticket: %w", NewUnavailableError("ticket store unavailable", cause))

	assert.True(t, IsUnavailableError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, GetAppError(err).Code)
	assert.NotContains(t, GetAppError(err).Error(), "connection refused")
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad status")))
	assert.True(t, IsNotFoundError(NewNotFoundError("no ticket")))
	assert.True(t, IsUnauthorizedError(NewUnauthorizedError("token", "invalid_client")))
	assert.True(t, IsForbiddenError(NewForbiddenError("nope")))
	assert.True(t, IsConflictError(NewConflictError("taken")))
	assert.False(t, IsNotFoundError(errors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "validation_error: bad (status 7)", NewValidationError("bad", "status 7").Error())
	assert.Equal(t, "not_found: missing", NewNotFoundError("missing").Error())
}
