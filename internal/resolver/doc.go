// Package resolver turns one free-form financial query into an ordered,
// deduplicated list of ticker matches.
//
// Resolution is a fixed cascade over an immutable catalog snapshot: guard
// checks, forecast-phrase narrowing, bare-ticker token scan, exact alias
// phrase scan, token and sliding-window fallback with progressive fuzzy
// cutoffs, and a final single-suggestion pass for otherwise unresolved
// queries. Precedence is exact over override over fuzzy over suggestion, and
// within a stage matches order by text position. Each ticker is claimed at
// most once per call.
//
// Resolve performs no I/O and allocates only call-local state, so one
// Resolver may serve unlimited concurrent callers. Malformed or empty input
// is never an error; it simply yields zero matches.
package resolver
