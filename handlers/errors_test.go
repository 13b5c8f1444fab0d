package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairright/services/domainerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domainerr.ErrSelfBooking, http.StatusBadRequest, domainerr.CodeSelfBooking},
		{domainerr.ErrAlreadyBooked, http.StatusBadRequest, domainerr.CodeAlreadyBooked},
		{domainerr.Validation("date is required"), http.StatusBadRequest, domainerr.CodeValidation},
		{domainerr.New(domainerr.CodeInvalidStatus, "bad"), http.StatusBadRequest, domainerr.CodeInvalidStatus},
		{domainerr.ErrForbidden, http.StatusForbidden, domainerr.CodeForbidden},
		{domainerr.NotFound("Booking"), http.StatusNotFound, domainerr.CodeNotFound},
		{domainerr.New(domainerr.CodeInvalidTransition, "no"), http.StatusConflict, domainerr.CodeInvalidTransition},
		{fmt.Errorf("lookup: %w", domainerr.ErrForbidden), http.StatusForbidden, domainerr.CodeForbidden},
		{fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "TIMEOUT"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err, "Something failed")

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Something failed", body["error"])
			}
		})
	}
}

func TestHealthReportsUnavailableBeforeFirstCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["mongo"])
}
