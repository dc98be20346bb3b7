package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerlens/internal/catalog"
)

func newTestResolver(t *testing.T, tickers []string, names map[string]string, overrides []catalog.Override) *Resolver {
	t.Helper()
	universe := catalog.NewUniverse(tickers)
	cat, err := catalog.Build(universe, names, overrides, 0)
	require.NoError(t, err)
	return New(universe, catalog.NewIndex(cat, overrides), nil)
}

func bigTechNames() map[string]string {
	return map[string]string{
		"AAPL":  "Apple Inc.",
		"MSFT":  "Microsoft Corporation",
		"AMZN":  "Amazon.com Inc.",
		"TSLA":  "Tesla Inc.",
		"BRK.A": "Berkshire Hathaway Inc.",
	}
}

func tickersOf(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Ticker
	}
	return out
}

func TestResolveBareTickers(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN", "TSLA", "BRK.A"}, bigTechNames(), nil)

	t.Run("compare query preserves order", func(t *testing.T) {
		matches, warnings := r.Resolve("Compare AAPL vs MSFT")
		assert.Equal(t, []string{"AAPL", "MSFT"}, tickersOf(matches))
		assert.Empty(t, warnings)
	})

	t.Run("lowercase tickers", func(t *testing.T) {
		matches, _ := r.Resolve("aapl vs tsla")
		assert.Equal(t, []string{"AAPL", "TSLA"}, tickersOf(matches))
	})

	t.Run("dotted class ticker", func(t *testing.T) {
		matches, _ := r.Resolve("How is BRK.A doing?")
		assert.Equal(t, []string{"BRK.A"}, tickersOf(matches))
	})

	t.Run("punctuation trimmed", func(t *testing.T) {
		matches, _ := r.Resolve("What about AMZN?")
		assert.Equal(t, []string{"AMZN"}, tickersOf(matches))
	})

	t.Run("stopword that is a valid ticker wins", func(t *testing.T) {
		rr := newTestResolver(t, []string{"IT", "AAPL"}, map[string]string{"IT": "Gartner Inc."}, nil)
		matches, _ := rr.Resolve("IT vs AAPL")
		assert.Equal(t, []string{"IT", "AAPL"}, tickersOf(matches))
	})
}

func TestResolveUniverseRoundTrip(t *testing.T) {
	tickers := []string{"AAPL", "MSFT", "AMZN", "TSLA", "BRK.A"}
	r := newTestResolver(t, tickers, bigTechNames(), nil)

	// Every universe ticker resolves to exactly itself, case-insensitively.
	for _, ticker := range tickers {
		for _, query := range []string{ticker, strings.ToLower(ticker)} {
			matches, _ := r.Resolve(query)
			require.Len(t, matches, 1, "query %q", query)
			assert.Equal(t, ticker, matches[0].Ticker, "query %q", query)
		}
	}
}

func TestResolveCatalogAliasRoundTrip(t *testing.T) {
	tickers := []string{"AAPL", "MSFT", "AMZN", "TSLA", "BRK.A"}
	universe := catalog.NewUniverse(tickers)
	cat, err := catalog.Build(universe, bigTechNames(), nil, 0)
	require.NoError(t, err)
	r := New(universe, catalog.NewIndex(cat, nil), nil)

	// Every alias the builder generated resolves back to its ticker.
	for _, ticker := range tickers {
		for _, alias := range cat.Aliases(ticker) {
			matches, _ := r.Resolve(alias)
			assert.Contains(t, tickersOf(matches), ticker, "alias %q", alias)
		}
	}
}

func TestResolveAliasPhrases(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN", "TSLA", "BRK.A"}, bigTechNames(), nil)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"company name", "How is Apple doing today?", []string{"AAPL"}},
		{"full display name", "Microsoft Corporation earnings", []string{"MSFT"}},
		{"multi word name", "berkshire hathaway annual letter", []string{"BRK.A"}},
		{"compact name", "berkshirehathaway news", []string{"BRK.A"}},
		{"two companies ordered", "apple and microsoft revenue", []string{"AAPL", "MSFT"}},
		{"possessive", "What's Tesla's margin?", []string{"TSLA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, _ := r.Resolve(tt.query)
			assert.Equal(t, tt.expected, tickersOf(matches))
		})
	}
}

func TestResolveNoDuplicateTickers(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT"}, bigTechNames(), nil)

	matches, _ := r.Resolve("AAPL Apple apple Apple Inc")
	assert.Equal(t, []string{"AAPL"}, tickersOf(matches))
}

func TestResolvePortfolioGuard(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN"}, bigTechNames(), nil)

	queries := []string{
		"what's my portfolio risk?",
		"optimize my portfolio",
		"holdings attribution for last quarter",
		"rebalance my positions",
		"portfolio exposure to drawdown",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			matches, warnings := r.Resolve(q)
			assert.Empty(t, matches)
			assert.Empty(t, warnings)
		})
	}

	t.Run("portfolio word alone does not guard", func(t *testing.T) {
		matches, _ := r.Resolve("is Apple in my portfolio")
		assert.Equal(t, []string{"AAPL"}, tickersOf(matches))
	})
}

func TestResolveFuzzy(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN", "TSLA", "BRK.A"}, bigTechNames(), nil)

	t.Run("single edit typo", func(t *testing.T) {
		matches, warnings := r.Resolve("What's Microsft's revenue?")
		require.Equal(t, []string{"MSFT"}, tickersOf(matches))
		assert.Contains(t, warnings, WarnFuzzyMatch)
	})

	t.Run("short typo", func(t *testing.T) {
		matches, warnings := r.Resolve("What is Aple's revenue?")
		require.Equal(t, []string{"AAPL"}, tickersOf(matches))
		assert.Contains(t, warnings, WarnFuzzyMatch)
	})

	t.Run("jargon never fuzzes into tickers", func(t *testing.T) {
		matches, _ := r.Resolve("trading volume today")
		assert.Empty(t, matches)
	})

	t.Run("exact beats fuzzy", func(t *testing.T) {
		matches, warnings := r.Resolve("microsoft quarterly numbers")
		assert.Equal(t, []string{"MSFT"}, tickersOf(matches))
		assert.Empty(t, warnings)
	})
}

func TestResolveOverrides(t *testing.T) {
	overrides := []catalog.Override{
		{Alias: "softie", Ticker: "MSFT"},
		{Alias: "the everything store", Ticker: "AMZN"},
	}
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN", "SOFI"},
		map[string]string{
			"AAPL": "Apple Inc.",
			"MSFT": "Microsoft Corporation",
			"AMZN": "Amazon.com Inc.",
			"SOFI": "SoFi Technologies Inc.",
		}, overrides)

	t.Run("override resolves to configured ticker", func(t *testing.T) {
		// "softie" is textually closer to SOFI's alias "sofi" than to any
		// Microsoft alias, but the override owns it.
		matches, _ := r.Resolve("how is softie doing")
		assert.Equal(t, []string{"MSFT"}, tickersOf(matches))
	})

	t.Run("multi word override", func(t *testing.T) {
		matches, _ := r.Resolve("buy the everything store now")
		assert.Equal(t, []string{"AMZN"}, tickersOf(matches))
	})

	t.Run("override outside the universe never resolves", func(t *testing.T) {
		rr := newTestResolver(t, []string{"AAPL"},
			map[string]string{"AAPL": "Apple Inc."},
			[]catalog.Override{{Alias: "square", Ticker: "XYZ"}})

		matches, _ := rr.Resolve("how is square doing")
		for _, m := range matches {
			assert.NotEqual(t, "XYZ", m.Ticker)
		}
	})
}

func TestResolvePositionsAcrossTokenExpansion(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT"},
		map[string]string{"AAPL": "Apple Inc.", "MSFT": "Microsoft Corporation"}, nil)

	// "J&J&P&G" normalizes to seven tokens, shifting everything after it in
	// the normalized stream. Matches must still come back in text order.
	matches, _ := r.Resolve("After the J&J&P&G selloff, compare Apple with MSFT")
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickersOf(matches))
}

func TestResolveForecastNarrowing(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN", "TSLA"}, bigTechNames(), nil)

	t.Run("narrows to the forecast subject", func(t *testing.T) {
		matches, _ := r.Resolve("Forecast Tesla's revenue growth")
		assert.Equal(t, []string{"TSLA"}, tickersOf(matches))
	})

	t.Run("predict shape", func(t *testing.T) {
		matches, _ := r.Resolve("predict the Apple price for next year")
		require.Len(t, matches, 1)
		assert.Equal(t, "AAPL", matches[0].Ticker)
	})

	t.Run("unresolvable subject falls through", func(t *testing.T) {
		matches, _ := r.Resolve("forecast MSFT earnings")
		assert.Equal(t, []string{"MSFT"}, tickersOf(matches))
	})
}

func TestResolveSuggestion(t *testing.T) {
	r := newTestResolver(t, []string{"MSFT", "AAPL"}, bigTechNames(), nil)

	t.Run("near miss becomes a suggestion", func(t *testing.T) {
		matches, warnings := r.Resolve("mircosoft")
		require.Len(t, matches, 1)
		assert.Equal(t, "MSFT", matches[0].Ticker)

		require.Len(t, warnings, 1)
		assert.True(t, strings.HasPrefix(warnings[0], WarnSuggestedPrefix+":MSFT:"), "warning %q", warnings[0])
	})

	t.Run("at most one suggestion", func(t *testing.T) {
		matches, _ := r.Resolve("mircosoft or aplle")
		assert.LessOrEqual(t, len(matches), 1)
	})

	t.Run("garbage stays unresolved", func(t *testing.T) {
		matches, warnings := r.Resolve("qwzx vbnm")
		assert.Empty(t, matches)
		assert.Empty(t, warnings)
	})
}

func TestResolveDegenerateInput(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL"}, bigTechNames(), nil)

	for _, q := range []string{"", "   ", "???", "!!!", "\n\t"} {
		matches, warnings := r.Resolve(q)
		assert.Empty(t, matches, "query %q", q)
		assert.Empty(t, warnings, "query %q", q)
	}
}

func TestResolveConcurrent(t *testing.T) {
	r := newTestResolver(t, []string{"AAPL", "MSFT", "AMZN"}, bigTechNames(), nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				matches, _ := r.Resolve("Compare AAPL vs Microsoft and amazon")
				if len(matches) != 3 {
					t.Errorf("expected 3 matches, got %v", tickersOf(matches))
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
