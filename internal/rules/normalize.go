package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds an answer for comparison: uppercase, diacritics stripped,
// whitespace runs collapsed to one space, trimmed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// transformers carry state, so build a fresh chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToUpper(s))
	if err != nil {
		folded = strings.ToUpper(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}
