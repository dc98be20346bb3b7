package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// corporateSuffixes are trailing tokens stripped from company names when
// building aliases ("Apple Inc" and "Apple" must produce the same alias).
var corporateSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"company":      {},
	"ltd":          {},
	"limited":      {},
	"llc":          {},
	"lp":           {},
	"plc":          {},
	"sa":           {},
	"nv":           {},
	"ag":           {},
	"se":           {},
	"ab":           {},
}

// optionalTrailing are generic trailing words that may be dropped after
// corporate suffixes ("Volkswagen Group" -> "Volkswagen").
var optionalTrailing = map[string]struct{}{
	"group":    {},
	"holdings": {},
	"holding":  {},
}

var (
	apostrophes  = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")
	possessiveRe = regexp.MustCompile(`'s\b`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes arbitrary text into a comparable alias string:
// NFKC composition, lowercase, "&" becomes "and", possessive "'s" removed,
// accents stripped, every non-alphanumeric run collapsed to a single space.
// The result may be empty; callers must treat an empty string as "no alias",
// never as a wildcard.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = apostrophes.Replace(s)
	s = possessiveRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&", " and ")
	s, _, _ = transform.String(stripAccents, s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeAlias applies Normalize and then the alias-only reductions: a
// leading "the" is dropped, trailing corporate suffix tokens are stripped
// repeatedly, then trailing generic words (group, holdings) are stripped
// repeatedly. At least one token is always retained.
func NormalizeAlias(text string) string {
	tokens := strings.Fields(Normalize(text))
	if len(tokens) == 0 {
		return ""
	}
	if tokens[0] == "the" && len(tokens) > 1 {
		tokens = tokens[1:]
	}
	tokens = stripTrailing(tokens, corporateSuffixes)
	tokens = stripTrailing(tokens, optionalTrailing)
	return strings.Join(tokens, " ")
}

// Compact returns the normalized form with all whitespace removed, used to
// match names written as a single run ("berkshirehathaway").
func Compact(text string) string {
	return strings.ReplaceAll(Normalize(text), " ", "")
}

// StripSuffix removes one trailing corporate suffix token from a token slice,
// returning the original slice when nothing was stripped.
func StripSuffix(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	if _, ok := corporateSuffixes[tokens[len(tokens)-1]]; ok {
		return tokens[:len(tokens)-1]
	}
	return tokens
}

// IsCorporateSuffix reports whether tok is a corporate suffix token.
func IsCorporateSuffix(tok string) bool {
	_, ok := corporateSuffixes[tok]
	return ok
}

func stripTrailing(tokens []string, set map[string]struct{}) []string {
	for len(tokens) > 1 {
		if _, ok := set[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// AliasVariants expands a company name's word tokens into the alias strings
// the catalog should carry: the full phrase, the phrase without a leading
// "the", the phrase without its corporate suffix, the phrase without trailing
// generic words, the first normalized word and the first raw token alone
// (when longer than two characters), and
// the compact form of each. All variants pass through Normalize; empty and
// duplicate results are dropped. The returned order is deterministic.
func AliasVariants(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	full := strings.Join(tokens, " ")
	candidates := []string{full}

	if strings.EqualFold(tokens[0], "the") && len(tokens) > 1 {
		candidates = append(candidates, strings.Join(tokens[1:], " "))
	}

	words := strings.Fields(Normalize(full))
	if len(words) > 0 {
		if words[0] == "the" && len(words) > 1 {
			words = words[1:]
		}
		stripped := stripTrailing(words, corporateSuffixes)
		candidates = append(candidates, strings.Join(stripped, " "))
		further := stripTrailing(stripped, optionalTrailing)
		candidates = append(candidates, strings.Join(further, " "))

		// The first normalized word stands alone ("Amazon.com, Inc." must
		// yield "amazon", not just "amazon com").
		if len(words[0]) > 2 {
			candidates = append(candidates, words[0])
		}
	}

	lead := tokens[0]
	if strings.EqualFold(lead, "the") && len(tokens) > 1 {
		lead = tokens[1]
	}
	if len(lead) > 2 {
		candidates = append(candidates, lead)
	}

	seen := make(map[string]struct{}, len(candidates)*2)
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, c := range candidates {
		add(Normalize(c))
		add(Compact(c))
	}
	return out
}
