package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize lower-cases a title and reduces it to space separated words.
// Punctuation and symbols are dropped, diacritics removed, and camelCase
// and letter/digit boundaries split: "Bug Fixes & Patches" -> "bug fixes patches".
func Normalize(title string) string {
	title = strings.NewReplacer("'", "", "’", "").Replace(stripMarks(title))
	return lower.String(strings.Join(splitWords(title), " "))
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// splitWords splits s on non-alphanumerics and inside compound words
func splitWords(s string) []string {
	rs := []rune(s)

	var words []string
	start := -1
	for i, r := range rs {
		if !isWordRune(r) {
			if start >= 0 {
				words = append(words, string(rs[start:i]))
				start = -1
			}
			continue
		}

		if start >= 0 && wordBreak(rs, i) {
			words = append(words, string(rs[start:i]))
			start = i
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, string(rs[start:]))
	}

	return words
}

// wordBreak reports whether a new word starts at rs[i]
func wordBreak(rs []rune, i int) bool {
	prev, cur := rs[i-1], rs[i]

	switch {
	case unicode.IsDigit(prev) != unicode.IsDigit(cur):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
		// acronym followed by a word: "HTTPServer" -> "HTTP", "Server"
		return true
	}
	return false
}
