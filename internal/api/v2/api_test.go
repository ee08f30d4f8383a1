package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthCheck verifies the health endpoint shape and values
func TestHealthCheck(t *testing.T) {
	e, _, _, controller := setupTestEnvironment(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.HealthCheck(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "test", response["version"])
	assert.Equal(t, "test", response["environment"])

	timestamp, ok := response["timestamp"].(string)
	require.True(t, ok, "timestamp must be a string")
	_, err := time.Parse(time.RFC3339, timestamp)
	assert.NoError(t, err, "timestamp must be RFC3339")

	uptime, ok := response["uptime"].(float64)
	require.True(t, ok, "uptime must be numeric")
	assert.GreaterOrEqual(t, uptime, 0.0)
}

// TestHealthCheckEnvironmentFallback verifies the debug-based fallback when
// no environment label is configured
func TestHealthCheckEnvironmentFallback(t *testing.T) {
	e, _, _, controller := setupTestEnvironment(t)
	controller.Settings.Environment = ""

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.HealthCheck(ctx))

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "development", response["environment"])
}

// TestHandleErrorResponseShape verifies the structured error body
func TestHandleErrorResponseShape(t *testing.T) {
	e, _, _, controller := setupTestEnvironment(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/birds/abc", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err := controller.HandleError(ctx, assert.AnError, "Something went wrong", http.StatusBadRequest)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Something went wrong", response.Message)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Len(t, response.CorrelationID, 8)
	assert.NotEmpty(t, response.Error)
}
