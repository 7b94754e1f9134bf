package backlink

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Matcher decides whether an entity name is mentioned in generated text.
type Matcher interface {
	Matches(text, name string) bool
}

// ContainsMatcher matches when the case-folded text contains the case-folded
// name anywhere, including inside longer words.
type ContainsMatcher struct{}

func (ContainsMatcher) Matches(text, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(fold(text), fold(name))
}

// WordMatcher is the stricter variant: the name must start and end on word
// boundaries.
type WordMatcher struct{}

func (WordMatcher) Matches(text, name string) bool {
	folded := fold(text)
	needle := fold(name)
	if needle == "" {
		return false
	}

	for offset := 0; offset <= len(folded)-len(needle); {
		i := strings.Index(folded[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)
		if boundaryBefore(folded, start) && boundaryAfter(folded, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(folded[start:])
		offset = start + size
	}
	return false
}

// MatcherByName returns the matcher for a config value; unknown names fall
// back to ContainsMatcher.
func MatcherByName(name string) Matcher {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "word":
		return WordMatcher{}
	default:
		return ContainsMatcher{}
	}
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}
