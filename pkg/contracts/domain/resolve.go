// Package domain holds the wire-level types shared with external consumers:
// the chatbot intent router and the downstream metric-resolution pipeline.
package domain

import "time"

// TickerMatch is one resolved company reference in a query.
type TickerMatch struct {
	// Input is the query substring that produced the match.
	Input string `json:"input"`
	// Ticker is the resolved universe symbol.
	Ticker string `json:"ticker" validate:"required,min=1,max=10"`
}

// ResolveResult is the output contract of a resolve call. An unresolved
// query is a successful result with zero matches, never an error.
type ResolveResult struct {
	Matches  []TickerMatch `json:"matches"`
	Warnings []string      `json:"warnings"`
}

// CatalogInfo describes the currently published catalog snapshot.
type CatalogInfo struct {
	Tickers   int       `json:"tickers"`
	Aliases   int       `json:"aliases"`
	BuiltAt   time.Time `json:"built_at"`
	FromCache bool      `json:"from_cache"`
}
