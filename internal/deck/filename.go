package deck

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Export file extensions.
const (
	ExtHTML = "html"
	ExtPDF  = "pdf"
	ExtXLSX = "xlsx"
)

const fallbackFilename = "deck"

// Filename returns the file name an export of a deck about topic is saved
// under. Diacritics are folded and anything outside [a-zA-Z0-9._-] becomes
// an underscore; a blank topic falls back to "deck".
func Filename(topic, ext string) string {
	base := strings.TrimSpace(topic)
	if base == "" {
		return fallbackFilename + "." + ext
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, base); err == nil {
		base = folded
	}

	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, base)

	return base + "." + ext
}

// NormalizeLocale canonicalises a BCP 47 tag ("EN-gb" -> "en-GB"). Values
// that do not parse are returned trimmed but otherwise untouched; rejecting
// them is the deck service's job.
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}
