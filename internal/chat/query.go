package chat

import (
	"strings"

	"github.com/brainnova/brainnova/internal/knowledge"
)

// Query is a cleaned user utterance. Matching is accent-insensitive so
// "digitalizacion basica" and "digitalización básica" route identically.
type Query struct {
	Raw        string
	Normalized string
	Tokens     []string
}

// ParseQuery strips punctuation, lowercases, trims, and tokenizes.
func ParseQuery(raw string) Query {
	normalized := knowledge.CleanQuery(raw)
	return Query{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     strings.Fields(normalized),
	}
}

// Has reports whether any token equals one of the given words,
// accent-insensitively.
func (q Query) Has(words ...string) bool {
	for _, tok := range q.Tokens {
		folded := fold(tok)
		for _, w := range words {
			if folded == fold(w) {
				return true
			}
		}
	}
	return false
}

// Mentions reports whether the query contains the phrase,
// accent-insensitively.
func (q Query) Mentions(phrase string) bool {
	return strings.Contains(fold(q.Normalized), fold(strings.ToLower(phrase)))
}

// fold drops Spanish diacritics for comparison purposes only.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'á', 'à':
			return 'a'
		case 'é', 'è':
			return 'e'
		case 'í', 'ì':
			return 'i'
		case 'ó', 'ò':
			return 'o'
		case 'ú', 'ù', 'ü':
			return 'u'
		case 'ñ':
			return 'n'
		}
		return r
	}, s)
}
