package catalog

import (
	"sort"
	"strings"

	"tickerlens/internal/normalize"
)

// Index is the inverted alias lookup derived from a Catalog: alias ->
// ordered candidate tickers. It is rebuilt whenever the catalog rebuilds and
// is read-only afterwards, so concurrent lookups need no locking.
type Index struct {
	byAlias   map[string][]string
	aliases   []string
	overrides map[string]string
}

// NewIndex inverts the catalog. Aliases shared by several tickers keep every
// candidate in catalog ticker order; ambiguity is legal here and resolved
// later by match position and stage precedence. For every override the
// owning ticker is moved to the front of the candidate list for both the
// normalized alias and its compact form.
func NewIndex(c *Catalog, overrides []Override) *Index {
	ix := &Index{
		byAlias:   make(map[string][]string),
		overrides: make(map[string]string, len(overrides)*2),
	}

	members := make(map[string]struct{}, len(c.Tickers()))
	for _, ticker := range c.Tickers() {
		members[ticker] = struct{}{}
		for _, alias := range c.Aliases(ticker) {
			ix.byAlias[alias] = append(ix.byAlias[alias], ticker)
		}
	}

	for _, ov := range overrides {
		ticker := strings.ToUpper(ov.Ticker)
		// An override naming a ticker outside the catalog is dead weight; the
		// builder skipped it and the index must never hand it out either.
		if _, ok := members[ticker]; !ok {
			continue
		}
		for _, alias := range []string{normalize.Normalize(ov.Alias), normalize.Compact(ov.Alias)} {
			if alias == "" {
				continue
			}
			ix.overrides[alias] = ticker
			ix.promote(alias, ticker)
		}
	}

	ix.aliases = make([]string, 0, len(ix.byAlias))
	for alias := range ix.byAlias {
		ix.aliases = append(ix.aliases, alias)
	}
	sort.Strings(ix.aliases)

	return ix
}

// promote moves ticker to the front of an alias's candidate list when
// present.
func (ix *Index) promote(alias, ticker string) {
	candidates := ix.byAlias[alias]
	for i, t := range candidates {
		if t == ticker {
			copy(candidates[1:i+1], candidates[:i])
			candidates[0] = ticker
			return
		}
	}
}

// Lookup returns the ordered candidate tickers for an exact alias, nil when
// the alias is unknown. Callers must not mutate the result.
func (ix *Index) Lookup(alias string) []string {
	return ix.byAlias[alias]
}

// OverrideTicker returns the ticker a manual override assigns to the alias.
func (ix *Index) OverrideTicker(alias string) (string, bool) {
	t, ok := ix.overrides[alias]
	return t, ok
}

// Aliases returns every indexed alias in sorted order. The resolver scans
// this list for exact phrase hits and fuzzy candidates.
func (ix *Index) Aliases() []string {
	return ix.aliases
}

// Len returns the number of distinct aliases.
func (ix *Index) Len() int {
	return len(ix.byAlias)
}
