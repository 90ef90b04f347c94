package session

import (
	"fmt"
	"strings"
)

// View formats everything the engine prints.
type View interface {
	Question(text string, remaining int) string
	InputPrompt() string
	Correct() string
	Incorrect(answer, example string) string
	RetryPrompt() string
	Graduated(text string, score int) string
}

// PlainView renders without styling. It is used when no View is set.
type PlainView struct{}

func (PlainView) Question(text string, remaining int) string {
	return fmt.Sprintf("[%d left] %s", remaining, text)
}

func (PlainView) InputPrompt() string { return "> " }

func (PlainView) Correct() string { return "correct" }

func (PlainView) Incorrect(answer, example string) string {
	var b strings.Builder
	b.WriteString("incorrect, the answer is: ")
	b.WriteString(answer)
	if example != "" {
		b.WriteString("\nexample: ")
		b.WriteString(example)
	}
	return b.String()
}

func (PlainView) RetryPrompt() string { return "type it> " }

func (PlainView) Graduated(text string, score int) string {
	if score == ScorePerfect {
		return fmt.Sprintf("learned: %s", text)
	}
	return fmt.Sprintf("learned after a miss: %s", text)
}
