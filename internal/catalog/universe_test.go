package catalog

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadUniverseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("comments and blanks skipped", func(t *testing.T) {
		path := writeFile(t, dir, "universe.txt", "# S&P tickers\nAAPL\n\nMSFT # software\nAMZN\n")
		tickers, err := LoadUniverseFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAPL", "MSFT", "AMZN"}, tickers)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadUniverseFile(filepath.Join(dir, "absent.txt"))
		assert.Error(t, err)
	})
}

func TestLoadUniverse(t *testing.T) {
	dir := t.TempDir()
	defaultPath := writeFile(t, dir, "default.txt", "AAPL\nMSFT\n")
	broadPath := writeFile(t, dir, "broad.txt", "AAPL\nMSFT\nAMZN\nGOOG\n")

	t.Run("broad universe supersedes default", func(t *testing.T) {
		u, err := LoadUniverse(defaultPath, broadPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, u.Len())
		assert.True(t, u.Contains("goog"))
	})

	t.Run("falls back to default when broad missing", func(t *testing.T) {
		u, err := LoadUniverse(defaultPath, filepath.Join(dir, "absent.txt"), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, u.Len())
	})

	t.Run("empty broad file falls back with a warning", func(t *testing.T) {
		emptyBroad := writeFile(t, dir, "broad_empty.txt", "# placeholder\n")

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		u, err := LoadUniverse(defaultPath, emptyBroad, logger)
		require.NoError(t, err)
		assert.Equal(t, 2, u.Len())
		assert.Contains(t, buf.String(), "using default universe")
		assert.Contains(t, buf.String(), "broad_empty.txt")
	})

	t.Run("unreadable default is a configuration error", func(t *testing.T) {
		_, err := LoadUniverse(filepath.Join(dir, "absent.txt"), "", nil)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("empty universe is a configuration error", func(t *testing.T) {
		empty := writeFile(t, dir, "empty.txt", "# nothing here\n")
		_, err := LoadUniverse(empty, "", nil)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestNewUniverse(t *testing.T) {
	u := NewUniverse([]string{"aapl", "AAPL", " msft ", ""})
	assert.Equal(t, []string{"AAPL", "MSFT"}, u.Tickers())
	assert.True(t, u.Contains("AAPL"))
	assert.True(t, u.Contains("msft"))
	assert.False(t, u.Contains("GOOG"))
}

func TestLoadNameMap(t *testing.T) {
	dir := t.TempDir()

	t.Run("parses display name lines", func(t *testing.T) {
		path := writeFile(t, dir, "names.md", `# Companies
- Apple Inc. (AAPL)
- Microsoft Corporation (MSFT)
not a name line
- Berkshire Hathaway (BRK.A)
`)
		names, err := LoadNameMap(path)
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", names["AAPL"])
		assert.Equal(t, "Microsoft Corporation", names["MSFT"])
		assert.Equal(t, "Berkshire Hathaway", names["BRK.A"])
		assert.Len(t, names, 3)
	})

	t.Run("first entry wins on duplicate ticker", func(t *testing.T) {
		path := writeFile(t, dir, "dup.md", "- Apple Inc. (AAPL)\n- Apple Computer (AAPL)\n")
		names, err := LoadNameMap(path)
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", names["AAPL"])
	})

	t.Run("missing file is a configuration error", func(t *testing.T) {
		_, err := LoadNameMap(filepath.Join(dir, "absent.md"))
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}
