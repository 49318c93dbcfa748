// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Make folds a display name to ASCII and collapses it into a lowercase,
// hyphen-separated slug: "7th St / Metro Center" -> "7th-st-metro-center".
func Make(name string) string {
	folded := unidecode.Unidecode(name)

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
