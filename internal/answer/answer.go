// Package answer builds the canonical answers learners are checked against.
//
// Words and sentences use different policies. A word answer must match the
// canonical form exactly (case-sensitive, only surrounding whitespace is
// ignored). A sentence answer is compared after both sides are lowercased and
// stripped of everything but letters and whitespace. Case folding covers
// ASCII letters only.
package answer

import (
	"strings"
	"unicode"

	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Word returns the canonical answer for a vocabulary entry: the lowercased
// article followed by the German form for nouns, the bare German form
// otherwise.
func Word(cat *catalog.Catalog, w store.Word) string {
	if w.GenderID == nil {
		return w.German
	}
	article, ok := cat.Article(*w.GenderID)
	if !ok {
		return w.German
	}
	return strings.ToLower(article) + " " + w.German
}

// CheckWord reports whether input is the canonical answer for w.
func CheckWord(cat *catalog.Catalog, w store.Word, input string) bool {
	return strings.TrimSpace(input) == Word(cat, w)
}

// Sentence returns the canonical answer for a sentence entry.
func Sentence(s store.Sentence) string {
	return s.German
}

// CheckSentence reports whether input matches the sentence once both are
// normalized.
func CheckSentence(s store.Sentence, input string) bool {
	return NormalizeSentence(input) == NormalizeSentence(s.German)
}

// NormalizeSentence trims s, drops every rune that is neither a letter nor
// whitespace, and lowercases the rest. Only ASCII letters are folded: Ä and ä
// stay distinct.
func NormalizeSentence(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			continue
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
