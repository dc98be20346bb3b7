package catalog

// DefaultOverrides is the static alias ownership table. Entries whose ticker
// is not in the loaded universe are skipped at build time, so the table can
// stay broader than any one deployment's universe.
//
// Order matters: later entries win when aliases collide.
func DefaultOverrides() []Override {
	return []Override{
		{Alias: "google", Ticker: "GOOGL"},
		{Alias: "alphabet", Ticker: "GOOGL"},
		{Alias: "facebook", Ticker: "META"},
		{Alias: "fb", Ticker: "META"},
		{Alias: "square", Ticker: "XYZ"},
		{Alias: "softie", Ticker: "MSFT"},
		{Alias: "big blue", Ticker: "IBM"},
		{Alias: "berkshire", Ticker: "BRK.B"},
		{Alias: "coke", Ticker: "KO"},
		{Alias: "jnj", Ticker: "JNJ"},
		{Alias: "jpm", Ticker: "JPM"},
		{Alias: "exxon", Ticker: "XOM"},
	}
}
