package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/depositd/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponseWithError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", errors.NewValidationError("bad"), http.StatusBadRequest, "validation_error"},
		{"not found", errors.NewNotFoundError("missing"), http.StatusNotFound, "not_found"},
		{"immutable", errors.NewImmutableFieldError("amount"), http.StatusUnprocessableEntity, "immutable_field"},
		{"price", errors.NewPriceUnavailableError("BTC"), http.StatusServiceUnavailable, "price_unavailable"},
		{"user", errors.NewUserNotFoundError(7), http.StatusNotFound, "user_not_found"},
		{"conflict", errors.NewConflictError("stale"), http.StatusConflict, "conflict"},
		{"wrapped", fmt.Errorf("outer: %w", errors.NewNotFoundError("inner")), http.StatusNotFound, "not_found"},
		{"plain", fmt.Errorf("sql: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponseWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.NotContains(t, resp.Error.Message, "connection refused")
		})
	}
}
