package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerlens/internal/config"
	"tickerlens/pkg/contracts/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	universe := filepath.Join(dir, "universe.txt")
	require.NoError(t, os.WriteFile(universe, []byte("AAPL\nMSFT\nGOOGL\n"), 0o644))

	names := filepath.Join(dir, "company_names.md")
	require.NoError(t, os.WriteFile(names, []byte(
		"- Apple Inc. (AAPL)\n- Microsoft Corporation (MSFT)\n- Alphabet Inc. (GOOGL)\n",
	), 0o644))

	return &config.Config{
		Server: config.ServerConfig{
			Port:            18080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json", Output: "console"},
		Paths: config.PathsConfig{
			UniverseFile: universe,
			NameMapFile:  names,
			CacheFile:    filepath.Join(dir, "alias_cache.json"),
		},
		Resolver: config.ResolverConfig{
			MaxAliases:           40,
			TokenFuzzyFloor:      0.80,
			PhraseFuzzyThreshold: 0.82,
			SuggestFloor:         0.78,
		},
	}
}

func TestNewApplicationWithConfig(t *testing.T) {
	app, err := NewApplicationWithConfig(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, app.Router)
	require.NotNil(t, app.Server)
	assert.Equal(t, ":18080", app.Server.Addr)
}

func TestApplication_Routes(t *testing.T) {
	app, err := NewApplicationWithConfig(testConfig(t))
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("resolve", func(t *testing.T) {
		body := bytes.NewBufferString(`{"query":"compare Apple and Microsoft"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/resolve", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var result domain.ResolveResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Matches, 2)
		assert.Equal(t, "AAPL", result.Matches[0].Ticker)
		assert.Equal(t, "MSFT", result.Matches[1].Ticker)
	})

	t.Run("catalog rebuild", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/rebuild", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var info domain.CatalogInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, 3, info.Tickers)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tickerlens_")
	})

	t.Run("request id header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}
