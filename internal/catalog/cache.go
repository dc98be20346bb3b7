package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// cacheVersion guards the artifact format. A version mismatch is treated the
// same as corruption: discard and rebuild.
const cacheVersion = 1

type cacheFile struct {
	Version int                 `json:"version"`
	Tickers map[string][]string `json:"tickers"`
	Order   []string            `json:"order"`
}

// SaveCache serializes the catalog to its cache artifact. The write is
// atomic (temp file + rename) and deterministic: identical catalogs always
// produce identical bytes, so rebuilds from unchanged sources are
// byte-stable.
func SaveCache(path string, c *Catalog) error {
	artifact := cacheFile{
		Version: cacheVersion,
		Tickers: make(map[string][]string, len(c.tickers)),
		Order:   c.tickers,
	}
	for _, ticker := range c.tickers {
		artifact.Tickers[ticker] = c.aliases[ticker]
	}

	data, err := json.MarshalIndent(&artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alias cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write alias cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace alias cache: %w", err)
	}
	return nil
}

// LoadCache reads the cache artifact back into a Catalog. Any error here is
// recoverable: the caller logs a warning and rebuilds from source.
func LoadCache(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias cache: %w", err)
	}

	var artifact cacheFile
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode alias cache: %w", err)
	}
	if artifact.Version != cacheVersion {
		return nil, fmt.Errorf("alias cache version %d, want %d", artifact.Version, cacheVersion)
	}
	if len(artifact.Order) == 0 || len(artifact.Tickers) == 0 {
		return nil, fmt.Errorf("alias cache has no tickers")
	}

	aliases := make(map[string][]string, len(artifact.Order))
	for _, ticker := range artifact.Order {
		list, ok := artifact.Tickers[ticker]
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("alias cache missing aliases for %s", ticker)
		}
		aliases[ticker] = list
	}

	return &Catalog{tickers: artifact.Order, aliases: aliases}, nil
}
