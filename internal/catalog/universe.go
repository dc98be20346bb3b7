package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Universe is the finite, ordered set of ticker symbols the system can
// resolve to. Membership checks are case-insensitive; tickers are stored
// uppercase in their original file order.
type Universe struct {
	tickers []string
	members map[string]struct{}
}

// NewUniverse builds a Universe from an ordered ticker list. Duplicates and
// blank entries are dropped; symbols are uppercased.
func NewUniverse(tickers []string) *Universe {
	u := &Universe{
		tickers: make([]string, 0, len(tickers)),
		members: make(map[string]struct{}, len(tickers)),
	}
	for _, t := range tickers {
		sym := strings.ToUpper(strings.TrimSpace(t))
		if sym == "" {
			continue
		}
		if _, dup := u.members[sym]; dup {
			continue
		}
		u.members[sym] = struct{}{}
		u.tickers = append(u.tickers, sym)
	}
	return u
}

// Contains reports whether the symbol is a universe member.
func (u *Universe) Contains(symbol string) bool {
	_, ok := u.members[strings.ToUpper(symbol)]
	return ok
}

// Tickers returns the ordered symbol list. Callers must not mutate it.
func (u *Universe) Tickers() []string {
	return u.tickers
}

// Len returns the number of universe members.
func (u *Universe) Len() int {
	return len(u.tickers)
}

// LoadUniverseFile reads a newline-delimited ticker file. Blank lines and
// lines starting with '#' are skipped; inline comments after a symbol are
// dropped.
func LoadUniverseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line != "" {
			tickers = append(tickers, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	return tickers, nil
}

// LoadUniverse loads the ticker universe from the configured files. When a
// broad universe file is configured and readable it supersedes the default;
// otherwise the default file is used. A missing broad file is normal, but a
// broad file that exists and cannot be used is logged before falling back.
// A universe that cannot be loaded or is empty is a fatal configuration
// problem.
func LoadUniverse(defaultPath, broadPath string, logger *slog.Logger) (*Universe, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if broadPath != "" {
		tickers, err := LoadUniverseFile(broadPath)
		switch {
		case err == nil && len(tickers) > 0:
			return NewUniverse(tickers), nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			logger.Warn("broad universe file unreadable, using default universe",
				slog.String("path", broadPath),
				slog.String("error", err.Error()),
			)
		case err == nil:
			logger.Warn("broad universe file is empty, using default universe",
				slog.String("path", broadPath),
			)
		}
	}

	tickers, err := LoadUniverseFile(defaultPath)
	if err != nil {
		return nil, &ConfigurationError{Reason: "ticker universe unreadable", Err: err}
	}
	u := NewUniverse(tickers)
	if u.Len() == 0 {
		return nil, &ConfigurationError{Reason: "ticker universe is empty"}
	}
	return u, nil
}
