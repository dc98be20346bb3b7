// Package catalog builds and owns the ticker alias catalog.
//
// The catalog maps every ticker in the configured universe to an ordered set
// of normalized aliases derived from the ticker symbol itself, the company's
// display name, and manual overrides. The inverted Index maps each alias back
// to its ordered candidate tickers and is what the resolver consults per
// query.
//
// Construction is a batch operation: load the universe and name map, run
// Build, invert into an Index, persist the cache artifact. The Store wraps
// that lifecycle behind a lazily built, atomically swappable snapshot so any
// number of concurrent readers can resolve against an immutable catalog while
// an operator-triggered rebuild prepares the next one.
//
// Build-time failures (empty universe, unreadable sources) are fatal and
// surface as *ConfigurationError. A missing or corrupt cache artifact is
// never fatal; it only forces a rebuild from source.
package catalog
