// Package collation folds strings so that values differing only by case or
// diacritics compare equal, approximating a Portuguese primary-strength
// collation ("Ficção" == "ficcao").
package collation

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key for s. The transformer chain is stateful,
// so a new one is built per call.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
