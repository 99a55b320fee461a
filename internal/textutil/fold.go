package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenSplitPattern matches runs of characters that separate search terms.
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Fold returns s case folded for caseless comparison. Folding handles more
// than ASCII, so "Crème BRÛLÉE" and "crème brûlée" compare equal.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Tokenize splits folded text into terms, dropping empty fragments.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(Fold(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token != "" {
			terms = append(terms, token)
		}
	}
	return terms
}

// MatchesAll reports whether every term of query appears in text, ignoring
// case. An empty query matches everything.
func MatchesAll(text, query string) bool {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return true
	}
	folded := Fold(text)
	for _, term := range terms {
		if !strings.Contains(folded, term) {
			return false
		}
	}
	return true
}

// Title converts s to title case using English rules.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
