package sites

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// slugify converts a person's display name into the URL slug form used
// by profile pages: accents stripped, punctuation dropped, whitespace
// collapsed to single hyphens, lower-cased.
//
// "José Álvarez-Smith Jr." becomes "jose-alvarezsmith-jr".
func slugify(name string) string {
	// NFKD decomposition splits accented letters into base letter plus
	// combining mark; removing the marks leaves plain ASCII letters.
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(stripper, name)
	if err != nil {
		clean = name
	}
	clean = nonSlugChars.ReplaceAllString(clean, "")
	slug := strings.Join(strings.Fields(clean), "-")
	return strings.ToLower(slug)
}
