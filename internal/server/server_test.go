package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/logging"
	"github.com/hongminglow/jbudget-be/internal/storage/memory"
)

func testConfig() config.Config {
	return config.Config{
		Port:             "8080",
		DataBackend:      config.BackendMemory,
		JWTSecret:        "access",
		JWTRefreshSecret: "refresh",
		JWTIssuer:        "jbudget-test",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
		CORSOrigins:      []string{"*"},
	}
}

func TestHandlerRoutes(t *testing.T) {
	h := NewHandler(testConfig(), memory.New(), logging.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := strings.NewReader(`{"name":"A","email":"a@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/tags", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewUsesConfiguredAddress(t *testing.T) {
	srv := New(testConfig(), memory.New(), logging.Discard())
	assert.Equal(t, ":8080", srv.inner.Addr)
}
