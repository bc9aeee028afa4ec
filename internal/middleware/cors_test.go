package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(origins []string, method, origin string) *httptest.ResponseRecorder {
	h := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/catalog/scenarios", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOriginAllowsCredentials(t *testing.T) {
	rec := corsRequest([]string{"https://coach.example.com"}, http.MethodGet, "https://coach.example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://coach.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	rec := corsRequest([]string{"*"}, http.MethodGet, "https://elsewhere.example")

	assert.Equal(t, "https://elsewhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	rec := corsRequest([]string{"https://coach.example.com"}, http.MethodGet, "https://evil.example")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := corsRequest([]string{"*"}, http.MethodOptions, "https://coach.example.com")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
