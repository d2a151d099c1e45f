package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pieterb/rackful/config"
)

func TestRouter(t *testing.T) {
	var seen string
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Method
		w.WriteHeader(http.StatusNoContent)
	})
	h := router(config.Default(), app)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/-/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	// methods chi does not know still reach the app
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("PROPFIND", "/docs/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "PROPFIND", seen)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/docs/?_method=DELETE", nil))
	assert.Equal(t, http.MethodDelete, seen)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "rackful_http_requests_total"))
}

func TestOpenStore(t *testing.T) {
	for _, provider := range []string{config.ProviderMemory, config.ProviderSQLite, config.ProviderPebble} {
		s, err := openStore(config.Store{Provider: provider})
		require.NoError(t, err, provider)
		_, ok, err := s.Get("/nothing")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, s.Close())
	}
}
