// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators are punctuation that reads as a word break in titles.
var separators = strings.NewReplacer(
	"·", "-",
	"/", "-",
	"_", "-",
	",", "-",
	":", "-",
	";", "-",
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9 -]`)
	whitespace   = regexp.MustCompile(`\s+`)
	dashes       = regexp.MustCompile(`-+`)
)

// Make returns the slug of s: lowercase ascii letters, digits and single hyphens.
// Applying Make to its own output returns the same string.
func Make(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = separators.Replace(s)
	s = stripMarks(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return dashes.ReplaceAllString(s, "-")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
