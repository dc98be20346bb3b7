package resolver

import (
	"regexp"
	"strings"
)

// questionStopwords are conversational and question tokens that must never
// resolve to a ticker on their own. A token that is also a valid universe
// member still wins: validity always beats stopword status.
var questionStopwords = []string{
	"what", "whats", "when", "where", "which", "who", "whom", "why", "how",
	"is", "are", "was", "were", "am", "be", "been", "being",
	"do", "does", "did", "done",
	"can", "could", "will", "would", "shall", "should", "may", "might", "must",
	"the", "a", "an", "and", "or", "but", "not", "no", "yes",
	"of", "for", "in", "on", "at", "to", "from", "by", "with", "without",
	"about", "over", "under", "between", "into", "than", "then",
	"vs", "versus",
	"my", "our", "your", "their", "his", "her", "its",
	"i", "me", "we", "us", "you", "it", "they", "them",
	"this", "that", "these", "those", "there", "here",
	"show", "tell", "give", "get", "find", "list", "please",
	"now", "today", "currently", "right",
}

// financialJargon are metric and portfolio vocabulary tokens that look like
// words but are never company references. They are excluded from the fallback
// and suggestion passes so "trading volume" cannot fuzzy-drift into a ticker.
var financialJargon = []string{
	"price", "prices", "stock", "stocks", "share", "shares",
	"ticker", "tickers", "symbol", "symbols",
	"market", "markets", "trading", "trade", "trades", "volume",
	"revenue", "revenues", "earnings", "income", "profit", "profits",
	"loss", "losses", "margin", "margins", "growth",
	"dividend", "dividends", "yield", "payout",
	"forecast", "forecasts", "predict", "prediction", "estimate", "estimates",
	"target", "targets", "guidance", "outlook",
	"report", "reports", "quarter", "quarterly", "annual", "yearly", "fiscal",
	"eps", "ebitda", "cash", "flow", "debt", "equity", "ratio", "ratios",
	"value", "valuation", "cap", "capitalization",
	"high", "low", "open", "close", "closing",
	"performance", "compare", "comparison", "analysis", "analyst", "analysts",
	"buy", "sell", "hold", "rating", "ratings",
	"news", "chart", "charts", "history", "historical", "data",
	"metric", "metrics", "kpi", "kpis", "financial", "financials",
	"company", "companies", "sector", "sectors", "industry",
	"index", "indices", "fund", "funds", "etf", "bond", "bonds",
	"percent", "percentage", "change", "current", "latest",
	"best", "worst", "top", "bottom",
}

var (
	// portfolioContextRe marks portfolio-scoped vocabulary, including
	// generated portfolio-id tokens such as "port_a1b2" or "portfolio-3".
	portfolioContextRe = regexp.MustCompile(`\b(portfolio|portfolios|holdings?|exposures?|positions?)\b|\b(?:pf|port(?:folio)?)[_-][a-z0-9]+\b`)

	// portfolioTopicRe marks risk, attribution, and optimization vocabulary.
	portfolioTopicRe = regexp.MustCompile(`\b(risk|risks|riskiest|var|cvar|volatility|attribution|optimise|optimize|optimised|optimized|optimisation|optimization|rebalance|rebalancing|allocation|allocate|diversification|diversify|diversified|drawdown|sharpe|sortino|beta|alpha|hedge|hedging|weight|weights|performance|return|returns|pnl)\b`)
)

// Guard holds the static stopword and blacklist rule sets the resolver
// consults to suppress false positives. It is never mutated at runtime.
type Guard struct {
	stopwords map[string]struct{}
	jargon    map[string]struct{}
}

// NewGuard builds the default guard rule sets.
func NewGuard() *Guard {
	g := &Guard{
		stopwords: make(map[string]struct{}, len(questionStopwords)),
		jargon:    make(map[string]struct{}, len(financialJargon)),
	}
	for _, w := range questionStopwords {
		g.stopwords[w] = struct{}{}
	}
	for _, w := range financialJargon {
		g.jargon[w] = struct{}{}
	}
	return g
}

// IsStopword reports whether the lowercased token is a question stopword.
func (g *Guard) IsStopword(token string) bool {
	_, ok := g.stopwords[token]
	return ok
}

// IsNoise reports whether the token is a stopword or financial jargon and
// therefore excluded from the fallback and suggestion passes.
func (g *Guard) IsNoise(token string) bool {
	if g.IsStopword(token) {
		return true
	}
	_, ok := g.jargon[token]
	return ok
}

// IsPortfolioQuery reports whether the text is a portfolio-context request
// (risk, attribution, optimization of the caller's own holdings). Such
// queries are never ticker lookups, even when they contain company-name-like
// substrings, so the resolver short-circuits to an empty result.
func (g *Guard) IsPortfolioQuery(text string) bool {
	lower := strings.ToLower(text)
	return portfolioContextRe.MatchString(lower) && portfolioTopicRe.MatchString(lower)
}
