package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPAHandler_ServesIndex(t *testing.T) {
	h := SPAHandler()

	for _, path := range []string{"/", "/practice/history"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Practice Coach", path)
	}
}

func TestSPAHandler_ServesAsset(t *testing.T) {
	rec := httptest.NewRecorder()
	SPAHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/ws/practice")
}

func TestSPAHandler_APIPathsNotFound(t *testing.T) {
	for _, path := range []string{"/api/unknown", "/ws/other"} {
		rec := httptest.NewRecorder()
		SPAHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
