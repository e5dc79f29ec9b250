package handlers

import (
	"net/http"
	"testing"

	"frontdesk/services/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFunctions(t *testing.T) {
	r := newRouter(t, newMemoryService(t))

	w := do(t, r, http.MethodGet, "/api/functions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fns, ok := decode(t, w)["functions"].([]any)
	require.True(t, ok)
	assert.Len(t, fns, len(assistant.FunctionDeclarations()))
}

func TestCallFunction(t *testing.T) {
	r := newRouter(t, newMemoryService(t))

	w := do(t, r, http.MethodPost, "/api/functions/call", FunctionCallRequest{
		Name: assistant.FnGetAppointments,
		Args: map[string]any{"date": day, "evening": true},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, assistant.FnGetAppointments, body["name"])
	resp, ok := body["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, assistant.StatusOK, resp["status"])
	assert.Contains(t, resp["result"], "14:00-15:00")

	w = do(t, r, http.MethodPost, "/api/functions/call", FunctionCallRequest{
		Name: assistant.FnCancelAppointment,
		Args: map[string]any{"booking_id": "64b000000000000000000000"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)["response"].(map[string]any)
	assert.Equal(t, assistant.StatusNotFound, resp["status"])

	w = do(t, r, http.MethodPost, "/api/functions/call", map[string]any{"args": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
