package resolver

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"tickerlens/internal/catalog"
	"tickerlens/internal/normalize"
)

// Warning values accumulated alongside matches.
const (
	// WarnFuzzyMatch marks a match produced by approximate similarity rather
	// than an exact alias or ticker hit.
	WarnFuzzyMatch = "fuzzy_match"
	// WarnSuggestedPrefix prefixes the whole-query suggestion warning:
	// "suggested_ticker:<ticker>:<source_text>".
	WarnSuggestedPrefix = "suggested_ticker"
)

// Match is one resolved company reference: the source text that produced it,
// the claimed ticker, and its position in the query's token stream.
type Match struct {
	Input    string
	Ticker   string
	Position int
}

// Resolver resolves queries against one immutable catalog snapshot. It is
// safe for unlimited concurrent use; all per-call state lives in a session.
type Resolver struct {
	universe *catalog.Universe
	index    *catalog.Index
	guard    *Guard
	fuzzy    FuzzyConfig
	logger   *slog.Logger
}

// New creates a Resolver over a universe and alias index with the default
// guard and fuzzy schedule.
func New(universe *catalog.Universe, index *catalog.Index, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		universe: universe,
		index:    index,
		guard:    NewGuard(),
		fuzzy:    DefaultFuzzyConfig(),
		logger:   logger.With(slog.String("component", "resolver")),
	}
}

// FromSnapshot creates a Resolver bound to a catalog snapshot.
func FromSnapshot(snap *catalog.Snapshot, logger *slog.Logger) *Resolver {
	return New(snap.Universe, snap.Index, logger)
}

// SetFuzzyConfig replaces the fuzzy cutoff schedule. Must be called before
// the resolver is shared between goroutines.
func (r *Resolver) SetFuzzyConfig(cfg FuzzyConfig) {
	r.fuzzy = cfg
}

// SetGuard replaces the stopword/blacklist rule sets. Must be called before
// the resolver is shared between goroutines.
func (r *Resolver) SetGuard(g *Guard) {
	if g != nil {
		r.guard = g
	}
}

// forecastRe captures the company span of "forecast/predict X's <metric>"
// queries so metric words elsewhere in the sentence cannot add spurious
// matches.
var forecastRe = regexp.MustCompile(`(?i)\b(?:forecast|predict|estimate|project)\b\s+(?:the\s+)?(.+?)(?:'s|’s)?\s+(?:revenue|revenues|earnings|eps|sales|income|profit|profits|price|prices|growth|margin|margins|dividend|dividends|valuation|cash\s+flow)\b`)

// Resolve runs the full matching cascade over one query.
//
// It never fails: malformed or empty input yields ([], []). Ambiguity is
// settled deterministically by stage precedence (exact > override > fuzzy >
// suggestion) and by text position, and each distinct ticker is returned at
// most once.
func (r *Resolver) Resolve(text string) ([]Match, []string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	// Stage 0: portfolio-context queries are never ticker lookups.
	if r.guard.IsPortfolioQuery(trimmed) {
		return nil, nil
	}

	// Stage 1: narrow forecast-shaped queries to the captured company span.
	if m := forecastRe.FindStringSubmatch(trimmed); m != nil {
		if matches, warnings := r.run(m[1]); len(matches) > 0 {
			return matches[:1], warnings
		}
	}

	return r.run(trimmed)
}

// run executes stages 2 through 6 over the given text.
func (r *Resolver) run(text string) ([]Match, []string) {
	s := newSession(text)
	if s.normText == "" {
		return nil, nil
	}

	// The cascade is an ordered list of strategies; each one only contributes
	// tickers no earlier stage has claimed.
	for _, stage := range []func(*session){
		r.scanBareTickers,
		r.scanAliasPhrases,
		r.scanTokens,
		r.scanWindows,
	} {
		stage(s)
	}

	if len(s.matches) == 0 {
		r.suggest(s)
	}

	sort.SliceStable(s.matches, func(i, j int) bool {
		return s.matches[i].Position < s.matches[j].Position
	})
	return s.matches, s.warnings
}

// rawToken is one whitespace-delimited token of the original query with
// surrounding punctuation trimmed. pos is the token's index in the
// normalized token stream, not the raw one, so positions from every stage
// live in a single space even when normalization expands a token ("AT&T"
// becomes three words).
type rawToken struct {
	text        string
	pos         int
	capitalized bool
}

// session holds all call-local resolution state.
type session struct {
	text     string
	normText string
	normToks []string
	rawToks  []rawToken
	// capitalized records lowercased tokens that were capitalized in the
	// original text; capitalization hints that a token is a proper name.
	capitalized map[string]struct{}
	// seen enforces the one-match-per-ticker invariant across stages.
	seen     map[string]struct{}
	matches  []Match
	warnings []string
}

func newSession(text string) *session {
	s := &session{
		text:        text,
		normText:    normalize.Normalize(text),
		seen:        make(map[string]struct{}),
		capitalized: make(map[string]struct{}),
	}
	s.normToks = strings.Fields(s.normText)

	normPos := 0
	for _, field := range strings.Fields(text) {
		width := len(strings.Fields(normalize.Normalize(field)))
		cleaned := strings.Trim(field, `.,;:!?"'()[]{}<>`)
		if cleaned == "" {
			normPos += width
			continue
		}
		first, _ := firstRune(cleaned)
		tok := rawToken{text: cleaned, pos: normPos, capitalized: unicode.IsUpper(first)}
		s.rawToks = append(s.rawToks, tok)
		if tok.capitalized {
			s.capitalized[strings.ToLower(cleaned)] = struct{}{}
		}
		normPos += width
	}
	return s
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// claim records a match unless the ticker was already claimed this call.
func (s *session) claim(ticker, input string, pos int, warning string) bool {
	if _, dup := s.seen[ticker]; dup {
		return false
	}
	s.seen[ticker] = struct{}{}
	s.matches = append(s.matches, Match{Input: input, Ticker: ticker, Position: pos})
	if warning != "" {
		s.warnings = append(s.warnings, warning)
	}
	return true
}

// claimFirst claims the first unclaimed, universe-valid candidate.
func (r *Resolver) claimFirst(s *session, candidates []string, input string, pos int, warning string) bool {
	for _, ticker := range candidates {
		if !r.universe.Contains(ticker) {
			continue
		}
		if _, dup := s.seen[ticker]; dup {
			continue
		}
		return s.claim(ticker, input, pos, warning)
	}
	return false
}

// bareTickerRe matches 1-5 alphabetic characters with an optional
// single-letter class suffix after a dot ("BRK.A").
var bareTickerRe = regexp.MustCompile(`^[A-Za-z]{1,5}(\.[A-Za-z])?$`)

// scanBareTickers (stage 2) accepts tokens that are universe members when
// uppercased, in original or undotted form. A valid ticker is accepted even
// when the token doubles as a stopword: validity always wins.
func (r *Resolver) scanBareTickers(s *session) {
	for _, tok := range s.rawToks {
		if !bareTickerRe.MatchString(tok.text) {
			continue
		}
		upper := strings.ToUpper(tok.text)
		undotted := strings.ReplaceAll(upper, ".", "")

		// Stopwords are rejected up front, but a token that is itself a
		// universe member still counts: validity wins.
		if r.guard.IsStopword(strings.ToLower(tok.text)) &&
			!r.universe.Contains(upper) && !r.universe.Contains(undotted) {
			continue
		}

		switch {
		case r.universe.Contains(upper):
			s.claim(upper, tok.text, tok.pos, "")
		case r.universe.Contains(undotted):
			s.claim(undotted, tok.text, tok.pos, "")
		}
	}
}

// scanAliasPhrases (stage 3) searches the normalized text for every indexed
// alias as a word-boundary substring and claims the leftmost hit's first
// unclaimed candidate. Very short aliases and stopword aliases only count
// when backed by a valid universe ticker.
func (r *Resolver) scanAliasPhrases(s *session) {
	padded := " " + s.normText + " "
	for _, alias := range r.index.Aliases() {
		if len(alias) <= 2 && !r.hasValidCandidate(alias) {
			continue
		}
		if r.guard.IsStopword(alias) && !r.hasValidCandidate(alias) {
			continue
		}
		i := strings.Index(padded, " "+alias+" ")
		if i < 0 {
			continue
		}
		pos := strings.Count(padded[:i+1], " ") - 1
		r.claimFirst(s, r.index.Lookup(alias), alias, pos, "")
	}
}

func (r *Resolver) hasValidCandidate(alias string) bool {
	for _, ticker := range r.index.Lookup(alias) {
		if r.universe.Contains(ticker) {
			return true
		}
	}
	return false
}

// scanTokens (stage 4, single-token pass) tries exact lookup, then manual
// override lookup, then progressive fuzzy matching for tokens that plausibly
// name a company (four or more characters, or capitalized in the original
// text).
func (r *Resolver) scanTokens(s *session) {
	for i, tok := range s.normToks {
		if len(tok) < 3 || r.guard.IsNoise(tok) {
			continue
		}

		if candidates := r.index.Lookup(tok); len(candidates) > 0 {
			r.claimFirst(s, candidates, tok, i, "")
			continue
		}
		if ticker, ok := r.index.OverrideTicker(tok); ok {
			s.claim(ticker, tok, i, "")
			continue
		}

		_, wasCapitalized := s.capitalized[tok]
		if len(tok) < 4 && !wasCapitalized {
			continue
		}

		alias, score := r.fuzzy.bestAlias(tok, r.index.Aliases(), r.fuzzy.TokenCutoffs, r.fuzzy.TokenLengthWindow)
		if alias == "" || score < r.fuzzy.TokenFloor {
			continue
		}
		if r.claimFirst(s, r.index.Lookup(alias), tok, i, WarnFuzzyMatch) {
			r.logger.Debug("fuzzy token match",
				"token", tok,
				"alias", alias,
				"score", score,
			)
		}
	}
}

// scanWindows (stage 4, multi-word pass) slides windows of five down to three
// tokens over the normalized text. Each window tries, in fixed order: exact
// match, override match, suffix-stripped exact, first-token exact, any-token
// exact, double-suffix-stripped exact, and only then phrase fuzzy matching.
func (r *Resolver) scanWindows(s *session) {
	for size := 5; size >= 3; size-- {
		if size > len(s.normToks) {
			continue
		}
		for i := 0; i+size <= len(s.normToks); i++ {
			r.scanWindow(s, s.normToks[i:i+size], i)
		}
	}
}

func (r *Resolver) scanWindow(s *session, window []string, pos int) {
	phrase := strings.Join(window, " ")

	if r.tryExact(s, phrase, pos) {
		return
	}
	for _, form := range []string{phrase, strings.ReplaceAll(phrase, " ", "")} {
		if ticker, ok := r.index.OverrideTicker(form); ok {
			s.claim(ticker, phrase, pos, "")
			return
		}
	}

	// Exact retries on reduced forms come before any fuzzy attempt.
	if stripped := normalize.StripSuffix(window); len(stripped) < len(window) {
		if r.tryExact(s, strings.Join(stripped, " "), pos) {
			return
		}
	}
	if len(window[0]) > 2 && r.tryExact(s, window[0], pos) {
		return
	}
	for j, tok := range window {
		if len(tok) > 2 && !r.guard.IsNoise(tok) && r.tryExact(s, tok, pos+j) {
			return
		}
	}
	if twice := normalize.StripSuffix(normalize.StripSuffix(window)); len(twice) <= len(window)-2 {
		if r.tryExact(s, strings.Join(twice, " "), pos) {
			return
		}
	}

	best := ""
	bestScore := 0.0
	for _, alias := range r.index.Aliases() {
		if !r.fuzzy.phraseCandidate(phrase, alias) {
			continue
		}
		if score := r.fuzzy.score(phrase, alias); score > bestScore {
			best = alias
			bestScore = score
		}
	}
	if best != "" && bestScore >= r.fuzzy.PhraseThreshold {
		if r.claimFirst(s, r.index.Lookup(best), phrase, pos, WarnFuzzyMatch) {
			r.logger.Debug("fuzzy phrase match",
				"phrase", phrase,
				"alias", best,
				"score", bestScore,
			)
		}
	}
}

// tryExact claims an exact alias hit for the given source string.
func (r *Resolver) tryExact(s *session, source string, pos int) bool {
	if source == "" {
		return false
	}
	candidates := r.index.Lookup(source)
	if len(candidates) == 0 {
		return false
	}
	return r.claimFirst(s, candidates, source, pos, "")
}

// suggest (stage 5) runs only when no stage produced a match. It finds the
// single best fuzzy candidate across all tokens and short windows and, above
// the suggestion floor, emits exactly one tagged match instead of leaving the
// query unresolved.
func (r *Resolver) suggest(s *session) {
	type candidate struct {
		source string
		pos    int
	}
	var sources []candidate
	for i, tok := range s.normToks {
		if len(tok) < 3 || r.guard.IsNoise(tok) {
			continue
		}
		sources = append(sources, candidate{source: tok, pos: i})
	}
	for size := 2; size <= 4 && size <= len(s.normToks); size++ {
		for i := 0; i+size <= len(s.normToks); i++ {
			sources = append(sources, candidate{source: strings.Join(s.normToks[i:i+size], " "), pos: i})
		}
	}

	bestScore := 0.0
	bestAlias := ""
	var bestSource candidate
	for _, src := range sources {
		alias, score := r.fuzzy.bestAlias(src.source, r.index.Aliases(), r.fuzzy.SuggestCutoffs, r.fuzzy.PhraseLengthWindow)
		if alias != "" && score > bestScore {
			bestScore = score
			bestAlias = alias
			bestSource = src
		}
	}
	if bestAlias == "" || bestScore < r.fuzzy.SuggestFloor {
		return
	}

	for _, ticker := range r.index.Lookup(bestAlias) {
		if !r.universe.Contains(ticker) {
			continue
		}
		warning := fmt.Sprintf("%s:%s:%s", WarnSuggestedPrefix, ticker, bestSource.source)
		s.claim(ticker, bestSource.source, bestSource.pos, warning)
		return
	}
}
