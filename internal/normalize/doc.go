// Package normalize implements the canonical text transform used for alias
// construction and query matching.
//
// Every string that enters the alias catalog or the resolver cascade passes
// through Normalize first, so both sides of a lookup always compare the same
// canonical form: NFKC-composed, lowercased, accent-stripped, punctuation-free,
// single-spaced. AliasVariants expands a company display name into the set of
// alias strings the catalog stores for its ticker.
package normalize
