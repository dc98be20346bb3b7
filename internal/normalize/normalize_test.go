package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Apple", "apple"},
		{"punctuation collapses to space", "Johnson, & Johnson!", "johnson and johnson"},
		{"possessive stripped", "Microsoft's revenue", "microsoft revenue"},
		{"curly apostrophe possessive", "Apple’s earnings", "apple earnings"},
		{"ampersand to and", "AT&T", "at and t"},
		{"accents stripped", "Société Générale", "societe generale"},
		{"dots become spaces", "BRK.A", "brk a"},
		{"whitespace trimmed", "  Tesla  ", "tesla"},
		{"empty input", "", ""},
		{"only punctuation", "?!...", ""},
		{"digits kept", "3M", "3m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeAlias(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"corporate suffix stripped", "Apple Inc.", "apple"},
		{"repeated suffixes stripped", "Acme Holdings Ltd", "acme"},
		{"leading the stripped", "The Coca-Cola Company", "coca cola"},
		{"generic trailing word stripped", "Volkswagen Group", "volkswagen"},
		{"never strips to nothing", "Co", "co"},
		{"single word unchanged", "Tesla", "tesla"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAlias(tt.input))
		})
	}
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "berkshirehathaway", Compact("Berkshire Hathaway"))
	assert.Equal(t, "jpmorganchase", Compact("JPMorgan Chase"))
	assert.Equal(t, "", Compact("  "))
}

func TestAliasVariants(t *testing.T) {
	t.Run("full expansion", func(t *testing.T) {
		variants := AliasVariants(strings.Fields("The Coca-Cola Company"))

		assert.Contains(t, variants, "the coca cola company")
		assert.Contains(t, variants, "coca cola company")
		assert.Contains(t, variants, "coca cola")
		assert.Contains(t, variants, "cocacola")
	})

	t.Run("first token alone when long enough", func(t *testing.T) {
		variants := AliasVariants(strings.Fields("Microsoft Corporation"))
		assert.Contains(t, variants, "microsoft")
	})

	t.Run("first word of a dotted name", func(t *testing.T) {
		// "Amazon.com" normalizes to two words; the bare first word must
		// still come out as an alias.
		variants := AliasVariants(strings.Fields("Amazon.com, Inc."))
		assert.Contains(t, variants, "amazon")
		assert.Contains(t, variants, "amazon com")
		assert.Contains(t, variants, "amazoncom")
	})

	t.Run("short first token excluded", func(t *testing.T) {
		variants := AliasVariants(strings.Fields("3M Company"))
		assert.NotContains(t, variants, "3m ")
		assert.Contains(t, variants, "3m company")
	})

	t.Run("no duplicates", func(t *testing.T) {
		variants := AliasVariants(strings.Fields("Tesla"))
		seen := make(map[string]int)
		for _, v := range variants {
			seen[v]++
			assert.NotEmpty(t, v)
		}
		for v, n := range seen {
			assert.Equal(t, 1, n, "variant %q appears %d times", v, n)
		}
	})

	t.Run("empty tokens", func(t *testing.T) {
		assert.Empty(t, AliasVariants(nil))
	})
}
