package resolver

import (
	"github.com/agnivade/levenshtein"
)

// FuzzyConfig is the ordered cutoff schedule for approximate matching. It is
// configuration data, not control flow: tuning the schedule never requires
// touching the cascade itself.
type FuzzyConfig struct {
	// TokenCutoffs are tried in descending order for single-token fuzzy
	// matching; the first cutoff that yields any candidate wins.
	TokenCutoffs []float64
	// TokenFloor is the absolute minimum score a single-token fuzzy match
	// must reach regardless of which cutoff produced it.
	TokenFloor float64
	// TokenLengthWindow prefilters token candidates to aliases within this
	// many characters of the token's length.
	TokenLengthWindow int

	// PhraseThreshold is the acceptance score for multi-word window matches.
	PhraseThreshold float64
	// PhraseLengthWindow prefilters phrase candidates by length distance.
	PhraseLengthWindow int

	// SuggestCutoffs are tried in descending order for the whole-query
	// suggestion pass.
	SuggestCutoffs []float64
	// SuggestFloor is the minimum score for emitting a suggestion.
	SuggestFloor float64

	// LengthBoost is added to a score when token and alias lengths differ by
	// at most one character.
	LengthBoost float64
}

// DefaultFuzzyConfig returns the tuned production schedule.
func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{
		TokenCutoffs:       []float64{0.85, 0.80, 0.75, 0.70, 0.65},
		TokenFloor:         0.80,
		TokenLengthWindow:  2,
		PhraseThreshold:    0.82,
		PhraseLengthWindow: 6,
		SuggestCutoffs:     []float64{0.75, 0.70, 0.65, 0.60},
		SuggestFloor:       0.78,
		LengthBoost:        0.02,
	}
}

// Similarity returns a normalized edit-distance ratio in [0, 1]: 1 for equal
// strings, 0 for nothing in common. Inputs are expected to be normalized
// already, so byte length is a safe denominator.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

// score rates an alias against a source string, boosting slightly when the
// lengths are close.
func (cfg FuzzyConfig) score(source, alias string) float64 {
	s := Similarity(source, alias)
	if s == 0 {
		return 0
	}
	diff := len(source) - len(alias)
	if diff >= -1 && diff <= 1 {
		s += cfg.LengthBoost
		if s > 1 {
			s = 1
		}
	}
	return s
}

// bestAlias finds the highest-scoring alias for source, trying each cutoff in
// order and returning at the first cutoff that yields a candidate. Candidates
// are prefiltered to aliases within lengthWindow characters of the source.
func (cfg FuzzyConfig) bestAlias(source string, aliases []string, cutoffs []float64, lengthWindow int) (string, float64) {
	for _, cutoff := range cutoffs {
		best := ""
		bestScore := 0.0
		for _, alias := range aliases {
			diff := len(alias) - len(source)
			if diff < -lengthWindow || diff > lengthWindow {
				continue
			}
			if s := cfg.score(source, alias); s >= cutoff && s > bestScore {
				best = alias
				bestScore = s
			}
		}
		if best != "" {
			return best, bestScore
		}
	}
	return "", 0
}

// firstLetterSubs pairs commonly confused leading letters for the phrase
// prefilter.
var firstLetterSubs = map[byte]byte{
	'c': 'k', 'k': 'c',
	'f': 'p', 'p': 'f',
	's': 'z', 'z': 's',
	'g': 'j', 'j': 'g',
	'i': 'y', 'y': 'i',
}

// phraseCandidate reports whether an alias passes the multi-word prefilter:
// same first letter (or a common substitution) and length within the phrase
// window.
func (cfg FuzzyConfig) phraseCandidate(phrase, alias string) bool {
	if phrase == "" || alias == "" {
		return false
	}
	diff := len(alias) - len(phrase)
	if diff < -cfg.PhraseLengthWindow || diff > cfg.PhraseLengthWindow {
		return false
	}
	if phrase[0] == alias[0] {
		return true
	}
	return firstLetterSubs[phrase[0]] == alias[0]
}
