package stations

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fillerPrefixes are the "station of" forms stripped from the start of a name.
// Longer forms come first so "gare des " wins over "gare ".
var fillerPrefixes = []string{
	"gare des ",
	"gare de ",
	"gare du ",
	"gare d'",
	"gare ",
}

// Normalize canonicalizes a free-text station name into a comparable key:
// lower-case, no diacritics, single spaces, no leading "gare de" filler.
// It is idempotent.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	s := foldDiacritics(strings.ToLower(name))
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.Join(strings.Fields(s), " ")
	for {
		trimmed := trimFiller(s)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func trimFiller(s string) string {
	for _, p := range fillerPrefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return s
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// firstToken returns the first space-delimited token of an already normalized key.
func firstToken(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i]
	}
	return key
}
