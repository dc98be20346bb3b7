package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	universe := NewUniverse([]string{"AAPL", "MSFT", "AMZN"})
	cat, err := Build(universe, testNames(), nil, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "aliases.json")
	require.NoError(t, SaveCache(path, cat))

	loaded, err := LoadCache(path)
	require.NoError(t, err)

	assert.Equal(t, cat.Tickers(), loaded.Tickers())
	for _, ticker := range cat.Tickers() {
		assert.Equal(t, cat.Aliases(ticker), loaded.Aliases(ticker))
	}
}

func TestCacheDeterminism(t *testing.T) {
	universe := NewUniverse([]string{"AAPL", "MSFT", "AMZN"})
	dir := t.TempDir()

	var payloads [][]byte
	for i := 0; i < 2; i++ {
		cat, err := Build(universe, testNames(), []Override{{Alias: "apple", Ticker: "AAPL"}}, 0)
		require.NoError(t, err)

		path := filepath.Join(dir, "aliases.json")
		require.NoError(t, SaveCache(path, cat))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		payloads = append(payloads, data)
	}

	assert.Equal(t, payloads[0], payloads[1], "identical sources must serialize identically")
}

func TestLoadCacheCorruption(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "alias cache written by a different era"},
		{"wrong version", `{"version":99,"tickers":{"AAPL":["aapl"]},"order":["AAPL"]}`},
		{"no tickers", `{"version":1,"tickers":{},"order":[]}`},
		{"order references missing ticker", `{"version":1,"tickers":{"AAPL":["aapl"]},"order":["AAPL","MSFT"]}`},
		{"ticker with no aliases", `{"version":1,"tickers":{"AAPL":[]},"order":["AAPL"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "cache.json", tt.content)
			_, err := LoadCache(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCacheMissing(t *testing.T) {
	_, err := LoadCache(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
