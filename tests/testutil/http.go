package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Envelope is the JSON shape of every API response.
type Envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// APIClient sends requests straight into a gin engine.
type APIClient struct {
	Engine *gin.Engine
	Prefix string
}

// NewAPIClient creates a client for routes under prefix, e.g. "/api/v1".
func NewAPIClient(engine *gin.Engine, prefix string) *APIClient {
	return &APIClient{Engine: engine, Prefix: prefix}
}

// Do sends body as JSON and returns the recorded response.
func (c *APIClient) Do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "Failed to marshal request body")
	}
	req := httptest.NewRequest(method, c.Prefix+path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	c.Engine.ServeHTTP(w, req)
	return w
}

// Get is Do without a body.
func (c *APIClient) Get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil, nil)
}

// Decode parses the response envelope with data of type T.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response: %s", w.Body.String())
	return env
}

// RequireStatus fails with the response body when the status differs.
func RequireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}

// RequireErrorCode asserts an error envelope carrying code.
func RequireErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	env := Decode[any](t, w)
	require.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	require.Equal(t, code, env.Error.Code, "Unexpected error code")
}
