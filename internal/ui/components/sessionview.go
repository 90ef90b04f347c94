package components

import (
	"fmt"

	"github.com/anki-sentences/anki-sentences/internal/session"
	"github.com/anki-sentences/anki-sentences/internal/ui/theme"
)

// SessionView renders session output with the application theme.
type SessionView struct{}

var _ session.View = SessionView{}

func (SessionView) Question(text string, remaining int) string {
	return theme.Remaining.Render(fmt.Sprintf("[%d]", remaining)) + " " + theme.Question.Render(text)
}

func (SessionView) InputPrompt() string {
	return theme.Prompt.Render("> ")
}

func (SessionView) Correct() string {
	return theme.Correct.Render("✓ correct")
}

func (SessionView) Incorrect(answer, example string) string {
	s := theme.Incorrect.Render("✗ incorrect") + "  " + theme.Answer.Render(answer)
	if example != "" {
		s += "\n  " + theme.Example.Render(example)
	}
	return s
}

func (SessionView) RetryPrompt() string {
	return theme.Hint.Render("type the answer") + " " + theme.Prompt.Render("> ")
}

func (SessionView) Graduated(text string, score int) string {
	if score == session.ScorePerfect {
		return theme.Correct.Render("★ learned: ") + theme.Body.Render(text)
	}
	return theme.Warning.Render("☆ learned after a miss: ") + theme.Body.Render(text)
}
