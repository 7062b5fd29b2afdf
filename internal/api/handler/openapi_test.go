package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	specpkg "github.com/daap14/quotator/api"
	"github.com/daap14/quotator/internal/api/handler"
)

func TestOpenAPIHandler_ReturnsJSON(t *testing.T) {
	t.Parallel()

	yamlSpec := []byte(`openapi: "3.0.3"
info:
  title: Test API
  version: "1.0.0"
paths: {}
`)
	h := handler.NewOpenAPIHandler(yamlSpec)
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "response should be valid JSON")

	assert.Equal(t, "3.0.3", result["openapi"])
	info := result["info"].(map[string]interface{})
	assert.Equal(t, "Test API", info["title"])
	assert.Contains(t, result, "paths")
}

func TestOpenAPIHandler_CachesConversion(t *testing.T) {
	t.Parallel()

	h := handler.NewOpenAPIHandler([]byte("openapi: 3.0.3\npaths: {}\n"))

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestOpenAPIHandler_InvalidYAML(t *testing.T) {
	t.Parallel()

	h := handler.NewOpenAPIHandler([]byte("openapi: [unclosed"))
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, w))
}

func TestOpenAPIHandler_EmbeddedDocument(t *testing.T) {
	t.Parallel()

	h := handler.NewOpenAPIHandler(specpkg.OpenAPISpec)
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	info := result["info"].(map[string]interface{})
	assert.Equal(t, "Quotator API", info["title"])

	paths := result["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/flavors/match")
	assert.Contains(t, paths, "/quotes/{id}/items/{itemId}")
}
