package catalog

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// nameLineRe matches the name-map document format: "- Display Name (TICKER)".
var nameLineRe = regexp.MustCompile(`^-\s*(.+?)\s*\(([A-Za-z][A-Za-z0-9.\-]*)\)\s*$`)

// LoadNameMap parses the display-name document into a ticker -> company name
// map. Lines that do not match the "- Display Name (TICKER)" shape are
// skipped; the ticker key is uppercased. When the same ticker appears twice
// the first entry wins.
func LoadNameMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: "name map unreadable", Err: err}
	}
	defer f.Close()

	names := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := nameLineRe.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		ticker := strings.ToUpper(m[2])
		if _, dup := names[ticker]; dup {
			continue
		}
		names[ticker] = m[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read name map: %w", err)
	}
	return names, nil
}
