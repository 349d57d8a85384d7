package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
}
