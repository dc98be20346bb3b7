package catalog

import (
	"fmt"
	"sort"
	"strings"

	"tickerlens/internal/normalize"
)

// DefaultMaxAliases caps how many aliases a single ticker may carry.
const DefaultMaxAliases = 40

// ConfigurationError reports a fatal build-time problem: resolution is
// meaningless without a readable, non-empty universe and name map, so these
// are surfaced to the operator instead of being defaulted away.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Override assigns an alias to a preferred ticker with exclusive ownership:
// once applied, no other ticker in the catalog retains that alias.
type Override struct {
	Alias  string
	Ticker string
}

// Catalog maps each universe ticker to its ordered alias list. It is built
// once and immutable afterwards; rebuilds produce a new Catalog.
type Catalog struct {
	tickers []string
	aliases map[string][]string
}

// Tickers returns the ordered ticker list.
func (c *Catalog) Tickers() []string {
	return c.tickers
}

// Aliases returns the alias list for a ticker, nil when unknown.
func (c *Catalog) Aliases(ticker string) []string {
	return c.aliases[strings.ToUpper(ticker)]
}

// AliasCount returns the total number of (ticker, alias) pairs.
func (c *Catalog) AliasCount() int {
	n := 0
	for _, a := range c.aliases {
		n += len(a)
	}
	return n
}

// Build constructs the alias catalog for a universe.
//
// For every ticker the display name (falling back to the ticker symbol) is
// expanded through normalize.AliasVariants and unioned with the normalized
// ticker forms: the symbol with dots as spaces, with dots removed, and the
// compact token joining. Manual overrides are then applied in order with
// exclusive ownership, later entries winning on collision. Finally each alias
// set is trimmed to maxAliases keeping the shortest entries, single-character
// aliases are dropped unless they equal the ticker itself, and every ticker
// is guaranteed at least its own normalized symbol as an alias.
func Build(universe *Universe, names map[string]string, overrides []Override, maxAliases int) (*Catalog, error) {
	if universe == nil || universe.Len() == 0 {
		return nil, &ConfigurationError{Reason: "ticker universe is empty"}
	}
	if maxAliases <= 0 {
		maxAliases = DefaultMaxAliases
	}

	sets := make(map[string]map[string]struct{}, universe.Len())
	for _, ticker := range universe.Tickers() {
		set := make(map[string]struct{})

		name, ok := names[ticker]
		if !ok || strings.TrimSpace(name) == "" {
			name = ticker
		}
		for _, v := range normalize.AliasVariants(strings.Fields(name)) {
			set[v] = struct{}{}
		}
		if len(set) == 0 {
			if seed := normalize.Normalize(ticker); seed != "" {
				set[seed] = struct{}{}
			}
		}

		addNonEmpty(set, normalize.Normalize(ticker))
		addNonEmpty(set, normalize.Normalize(strings.ReplaceAll(ticker, ".", " ")))
		addNonEmpty(set, normalize.Normalize(strings.ReplaceAll(ticker, ".", "")))
		addNonEmpty(set, normalize.Compact(ticker))

		sets[ticker] = set
	}

	// Overrides transfer ownership: the alias moves to the named ticker and
	// leaves every other ticker's set. Later overrides win on collision.
	for _, ov := range overrides {
		ticker := strings.ToUpper(ov.Ticker)
		if !universe.Contains(ticker) {
			continue
		}
		for _, alias := range []string{normalize.Normalize(ov.Alias), normalize.Compact(ov.Alias)} {
			if alias == "" {
				continue
			}
			for other, set := range sets {
				if other != ticker {
					delete(set, alias)
				}
			}
			sets[ticker][alias] = struct{}{}
		}
	}

	aliases := make(map[string][]string, universe.Len())
	for _, ticker := range universe.Tickers() {
		list := make([]string, 0, len(sets[ticker]))
		tickerLower := strings.ToLower(ticker)
		for alias := range sets[ticker] {
			if len(alias) == 1 && alias != tickerLower {
				continue
			}
			list = append(list, alias)
		}
		sort.Slice(list, func(i, j int) bool {
			if len(list[i]) != len(list[j]) {
				return len(list[i]) < len(list[j])
			}
			return list[i] < list[j]
		})
		if len(list) > maxAliases {
			list = list[:maxAliases]
		}
		if len(list) == 0 {
			list = []string{normalize.Normalize(ticker)}
		}
		aliases[ticker] = list
	}

	return &Catalog{
		tickers: append([]string(nil), universe.Tickers()...),
		aliases: aliases,
	}, nil
}

func addNonEmpty(set map[string]struct{}, alias string) {
	if alias != "" {
		set[alias] = struct{}{}
	}
}
