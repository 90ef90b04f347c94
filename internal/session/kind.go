package session

import (
	"context"
	"strings"

	"github.com/anki-sentences/anki-sentences/internal/answer"
	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Kind describes one type of study item to the engine: how to identify it,
// what to ask, and how to check the answer.
type Kind[T any] struct {
	Target store.Target

	ID func(T) int

	// Question is the text shown to the learner: the Spanish side, plus
	// context such as the topic when the kind has one.
	Question func(T) string

	// Answer is the canonical answer revealed after a miss.
	Answer func(T) string

	// Example is an optional usage example revealed after a miss.
	Example func(T) string

	// Check reports whether input is an acceptable answer.
	Check func(item T, input string) bool
}

// WordKind quizzes vocabulary. Articles come from cat.
func WordKind(cat *catalog.Catalog) Kind[store.Word] {
	return Kind[store.Word]{
		Target:   store.TargetWords,
		ID:       func(w store.Word) int { return w.ID },
		Question: func(w store.Word) string { return w.Spanish },
		Answer:   func(w store.Word) string { return answer.Word(cat, w) },
		Example:  func(w store.Word) string { return w.ExampleDE },
		Check: func(w store.Word, input string) bool {
			return answer.CheckWord(cat, w, input)
		},
	}
}

// SentenceKind quizzes sentences.
func SentenceKind() Kind[store.Sentence] {
	return Kind[store.Sentence]{
		Target:   store.TargetSentences,
		ID:       func(s store.Sentence) int { return s.ID },
		Question: sentenceQuestion,
		Answer:   answer.Sentence,
		Example:  func(store.Sentence) string { return "" },
		Check:    answer.CheckSentence,
	}
}

// Fetcher loads full records for a batch of ids. The engine uses the order
// of the returned slice as is.
type Fetcher[T any] interface {
	FetchByIDs(ctx context.Context, ids []int) ([]T, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc[T any] func(ctx context.Context, ids []int) ([]T, error)

func (f FetchFunc[T]) FetchByIDs(ctx context.Context, ids []int) ([]T, error) {
	return f(ctx, ids)
}

// Prompter reads one line of learner input. Implementations return the
// trimmed line, or ErrEndOfInput once input is exhausted.
type Prompter interface {
	PromptLine(prompt string) (string, error)
}

// AudioSource finds and plays pronunciation audio. Both calls are best
// effort: errors are reported and the session carries on.
type AudioSource interface {
	Lookup(target store.Target, itemID int) (path string, ok bool, err error)
	Play(ctx context.Context, path string) error
}

// sentenceQuestion prefixes the Spanish sentence with its topic, if any.
func sentenceQuestion(s store.Sentence) string {
	topic := strings.TrimSpace(s.Topic)
	if topic == "" {
		return s.Spanish
	}
	return "[" + topic + "] " + s.Spanish
}
