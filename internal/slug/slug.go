// Package slug derives URL-safe identifiers from display names and resolves
// them against a uniqueness scope.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify maps an arbitrary display string to a lowercase, hyphen-separated,
// alphanumeric slug. Diacritics are folded to their base letter and every run
// of other characters collapses into a single hyphen. The result may be empty.
func Slugify(s string) string {
	// Lowercase first so that case mappings producing combining marks are stripped too
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(s),
	)
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	separate := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if separate && b.Len() > 0 {
				b.WriteByte('-')
			}
			separate = false
			b.WriteRune(r)
			continue
		}
		separate = true
	}
	return b.String()
}

// Base slugifies s and substitutes fallback when nothing alphanumeric remains
func Base(s, fallback string) string {
	if out := Slugify(s); out != "" {
		return out
	}
	return Slugify(fallback)
}
