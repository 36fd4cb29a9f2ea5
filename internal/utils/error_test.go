package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFillsDefaultMessage(t *testing.T) {
	err := NewErrorBuilder(ErrCodeInvalidJSON).WithDetails("unexpected EOF").Build()
	assert.Equal(t, "Invalid JSON format", err.Message)
	assert.Equal(t, "INVALID_JSON: Invalid JSON format - unexpected EOF", err.Error())

	assert.Equal(t, "Unknown error", NewErrorBuilder("SOMETHING_ELSE").Build().Message)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Table not found: 7", NewNotFoundError("Table", "7").Message)
	assert.Equal(t, "Project not found", NewNotFoundError("Project", "").Message)
}

func TestStatusThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("rollback: %w", NewAuthorizationError("You can only rollback your own versions"))

	assert.True(t, IsErrorType(wrapped, ErrCodeForbidden))
	assert.Equal(t, http.StatusForbidden, GetErrorStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, GetErrorStatus(errors.New("plain")))
	assert.Equal(t, http.StatusUnprocessableEntity, GetErrorStatus(NewValidationError("bad", "")))
}

func TestDatabaseErrorKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewDatabaseError(cause, "create row")
	assert.ErrorIs(t, err, cause)
}
