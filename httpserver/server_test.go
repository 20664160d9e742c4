package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/api/cryptohandler"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *api.HTTPServerConfig) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg == nil {
		cfg = &api.HTTPServerConfig{}
	}
	cfg.Log = logger
	cfg.DrainDuration = time.Millisecond

	srv, err := New(cfg, cryptohandler.NewHandler(cryptoutils.DefaultProvider, nil, logger))
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	h := srv.Handler()

	w := get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())

	w = get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())

	w = get(t, h, "/drain")
	assert.JSONEq(t, `{"status":"draining"}`, w.Body.String())
	w = get(t, h, "/drain")
	assert.JSONEq(t, `{"status":"already draining"}`, w.Body.String())

	w = get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Liveness is unaffected by draining
	w = get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/undrain")
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	w = get(t, h, "/undrain")
	assert.JSONEq(t, `{"status":"already ready"}`, w.Body.String())

	w = get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRoutesAreServedAndMeasured(t *testing.T) {
	srv := newTestServer(t, nil)
	h := srv.Handler()

	alice, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)

	body, err := json.Marshal(api.SignRequest{Message: "hello", PrivateKey: string(alice.PrivateKey)})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sign", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.SignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	valid, err := cryptoutils.Verify("hello", cryptoutils.Signature(resp.Signature), alice.PublicKey)
	require.NoError(t, err)
	require.True(t, valid)

	w = get(t, srv.metrics.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `didcrypto_http_requests_total{code="200",route="/api/v1/sign"} 1`)
}

func TestRequestBodyLimit(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{RequestBodyLimit: 128})
	h := srv.Handler()

	body := `{"message":"` + strings.Repeat("a", 256) + `","private_key":"AAAA"}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sign", strings.NewReader(body)))
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestPprofDisabledByDefault(t *testing.T) {
	w := get(t, newTestServer(t, nil).Handler(), "/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, newTestServer(t, &api.HTTPServerConfig{EnablePprof: true}).Handler(), "/debug/pprof/")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShutdownFailsReadiness(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		GracefulShutdownDuration: time.Second,
	})
	srv.RunInBackground()
	srv.Shutdown()

	w := get(t, srv.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
