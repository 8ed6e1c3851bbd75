package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/api/router"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// DefaultTestServerConfig returns the default config with every path inside
// a test temp dir, an in-memory store and the light scrypt profile.
func DefaultTestServerConfig(t *testing.T) config.Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	dir := t.TempDir()
	light := cipher.LightScryptParams()

	cfg.Storage.Backend = keystore.BackendMemory
	cfg.Storage.Dir = dir
	cfg.Storage.DeviceIDFile = filepath.Join(dir, "device-id")
	cfg.Wallet.BackupDir = filepath.Join(dir, "backups")
	cfg.Wallet.ExternalSignerURL = ""
	cfg.Wallet.ChainsFile = ""
	cfg.Cipher = config.CipherServer{ScryptN: light.N, ScryptR: light.R, ScryptP: light.P}

	return cfg
}

// WithTestServer runs closure with a fully wired server on a FaultyBackend
// over memory. The backend is reachable as s.Backend.(*test.FaultyBackend).
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestServerConfig(t), closure)
}

func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	backend := NewFaultyBackend(keystore.NewMemoryBackend())

	s, err := api.InitNewServerWithBackend(cfg, backend)
	require.NoError(t, err, "failed to init server")

	router.Init(s)

	closure(s)

	// echo was never started, shutdown only releases the backend
	s.Shutdown(t.Context())
}

// PerformRequest runs a request against s.Echo. A non-nil body is sent as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponse decodes the JSON body of res into v.
func ParseResponse(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v), "failed to decode response: %s", res.Body.String())
}
