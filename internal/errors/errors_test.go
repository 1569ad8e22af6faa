package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Codes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("bad", nil).Code)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("missing", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, NewDatabaseError("db", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("boom", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, NewUnavailableError("down", nil).Code)
}

func TestAPIError_ErrorIncludesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewDatabaseError("failed to list sectors", cause)

	assert.Equal(t, "database: failed to list sectors (internal: connection refused)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "not_found: sector not found", NewNotFoundError("sector not found", nil).Error())
}

func TestIsNotFound_Wrapped(t *testing.T) {
	err := fmt.Errorf("monitor sector: %w", NewNotFoundError("sector not found", nil))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestAPIError_WithRequestIDAndDetails(t *testing.T) {
	err := NewValidationError("invalid reading", nil).
		WithRequestID("req_abc").
		WithDetails(map[string]string{"field": "value"})

	apiErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "req_abc", apiErr.RequestID)
	assert.Equal(t, map[string]string{"field": "value"}, apiErr.Details)
}
