package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/logging"
	"github.com/hongminglow/jbudget-be/internal/middleware"
	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage/memory"
)

var fixedNow = time.Date(2026, time.May, 15, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	mux    *http.ServeMux
	store  *memory.Store
	tokens *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenManager("access-secret", "refresh-secret", "jbudget-test", 15*time.Minute, time.Hour)
	log := logging.Discard()
	protect := Middleware(middleware.Authenticate(tokens, store, log))

	txHandler := NewTransactionHandler(store, log)
	txHandler.now = func() time.Time { return fixedNow }

	mux := http.NewServeMux()
	NewHealthHandler(fixedNow).Register(mux)
	NewAuthHandler(store, tokens, log).Register(mux, protect)
	NewTagHandler(store, store, log).Register(mux, protect)
	txHandler.Register(mux, protect)
	return &testAPI{t: t, mux: mux, store: store, tokens: tokens}
}

type apiResponse struct {
	Status  int
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  []json.RawMessage `json:"errors"`
}

func (a *testAPI) do(method, path, token string, body any) apiResponse {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	resp.Status = rec.Code
	return resp
}

// signup registers a fresh account and returns its access token.
func (a *testAPI) signup(email string) (string, models.User) {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, resp.Status, string(resp.Data))
	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	decode(a.t, resp, &out)
	return out.Token, out.User
}

func (a *testAPI) createTag(token, name, color string) models.Tag {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/tags", token, map[string]string{"name": name, "color": color})
	require.Equal(a.t, http.StatusCreated, resp.Status, resp.Message)
	var tag models.Tag
	decode(a.t, resp, &tag)
	return tag
}

func (a *testAPI) createTransaction(token string, body map[string]any) models.Transaction {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/transactions", token, body)
	require.Equal(a.t, http.StatusCreated, resp.Status, string(resp.Data))
	var tx models.Transaction
	decode(a.t, resp, &tx)
	return tx
}

func decode(t *testing.T, resp apiResponse, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

func errorPaths(t *testing.T, resp apiResponse) []string {
	t.Helper()
	paths := make([]string, 0, len(resp.Errors))
	for _, raw := range resp.Errors {
		var fe struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.Unmarshal(raw, &fe))
		paths = append(paths, fe.Path)
	}
	return paths
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
