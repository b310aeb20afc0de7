package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphens  = regexp.MustCompile(`-+`)
)

// GOST-ish transliteration for Cyrillic titles; everything else is handled
// by diacritic stripping.
var cyrillicTranslit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

const slugMaxLen = 200

// Slugify turns a free-form title into a stable [a-z0-9-] slug. Cyrillic is
// transliterated, diacritics stripped, runs of other characters collapse to
// a single hyphen. Falls back to "course" for titles with no usable runes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Transliterate before NFD: й and ё decompose to и/е plus a combining
	// mark, so after normalization their map entries would never match.
	var translit strings.Builder
	for _, r := range s {
		if lat, ok := cyrillicTranslit[r]; ok {
			translit.WriteString(lat)
			continue
		}
		translit.WriteRune(r)
	}

	var b strings.Builder
	for _, r := range norm.NFD.String(translit.String()) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = reHyphens.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")

	if len(out) > slugMaxLen {
		out = strings.Trim(out[:slugMaxLen], "-")
	}
	if out == "" {
		out = "course"
	}
	return out
}
