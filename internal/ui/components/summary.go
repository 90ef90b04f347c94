package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/anki-sentences/anki-sentences/internal/session"
	"github.com/anki-sentences/anki-sentences/internal/ui/theme"
)

// RenderSummary renders the end-of-session card.
func RenderSummary(s *session.Summary, width int) string {
	var b strings.Builder

	title := "Session complete"
	if s.Status == session.StatusExitedEarly {
		title = "Session ended early"
	}
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %d (%d first try, %d after a miss)\n",
		theme.Body.Render("Learned:"), s.Graduated, s.Perfect, s.Recovered)
	fmt.Fprintf(&b, "%s %d/%d\n", theme.Body.Render("Answers:"), s.Correct, s.Attempts)
	fmt.Fprintf(&b, "%s %s\n", theme.Body.Render("Time:"), s.Duration.Round(time.Second))

	if s.Attempts > 0 {
		b.WriteString("\n")
		b.WriteString(NewProgressBar("Accuracy", s.Accuracy, true, max(width-6, 20)).View())
	}

	return theme.Card.Render(b.String())
}
