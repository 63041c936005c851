package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

type upstreamError struct{ status int }

func (e *upstreamError) Error() string { return fmt.Sprintf("upstream %d", e.status) }

func (e *upstreamError) AsAppError() *errors.AppError {
	return &errors.AppError{Type: errors.ErrorTypeUnavailable, Code: http.StatusBadGateway, Message: "knowledge base call failed"}
}

func render(t *testing.T, err error) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, err)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestErrorResponseWithError(t *testing.T) {
	t.Run("validation maps to 400 with message", func(t *testing.T) {
		code, resp := render(t, errors.NewValidationError("The provided team id is not valid."))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, resp.Success)
		assert.Equal(t, "The provided team id is not valid.", resp.Error.Message)
	})

	t.Run("unauthorized exposes upstream code", func(t *testing.T) {
		code, resp := render(t, errors.NewUnauthorizedError("AADSTS7000215: invalid secret", "invalid_client"))
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid_client", resp.Error.Code)
		assert.Equal(t, "AADSTS7000215: invalid secret", resp.Error.Message)
	})

	t.Run("plain error hides detail", func(t *testing.T) {
		code, resp := render(t, stderrors.New("dial tcp: refused"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, internalErrorMessage, resp.Error.Message)
	})

	t.Run("converter is honoured through wrapping", func(t *testing.T) {
		code, resp := render(t, fmt.Errorf("publish: %w", &upstreamError{status: 429}))
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, "knowledge base call failed", resp.Error.Message)
	})
}
