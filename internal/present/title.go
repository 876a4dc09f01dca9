package present

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// specialWords keep their own casing in repository titles
var specialWords = map[string]string{
	"dom":    "DOM",
	"eslint": "ESLint",
	"ui":     "UI",
}

// minorWords stay lower case unless they start the title
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true,
}

// RepositoryTitle turns a repository name like "react-dom" into a display
// title like "React DOM"
func RepositoryTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})

	// Casers hold state, one per call
	caser := cases.Title(language.English)
	for i, w := range words {
		lower := strings.ToLower(w)
		switch {
		case specialWords[lower] != "":
			words[i] = specialWords[lower]
		case i > 0 && minorWords[lower]:
			words[i] = lower
		default:
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}
