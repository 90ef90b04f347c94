package components

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/anki-sentences/anki-sentences/internal/session"
)

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Header", Disabled: true},
		{Label: "Default"},
		{Label: "Locked", Disabled: true},
		{Label: "Work", Value: "work"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	if m.Value() != "work" {
		t.Errorf("Value = %q, want %q", m.Value(), "work")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if m.Selected != 1 {
		t.Errorf("after k Selected = %d, want 1", m.Selected)
	}
	if m.Value() != "Default" {
		t.Errorf("Value falls back to label, got %q", m.Value())
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up past first enabled item moved to %d", m.Selected)
	}
}

func TestMenu_EnterChooses(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a"}, {Label: "b"}})
	if m.Chosen {
		t.Fatal("new menu should not be chosen")
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.Chosen {
		t.Error("enter should choose")
	}
}

func TestMenu_View(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Default"}, {Label: "Work"}})
	view := m.View()
	if !strings.Contains(view, "Default") || !strings.Contains(view, "Work") {
		t.Errorf("view missing labels: %q", view)
	}
}

func TestSessionView_Incorrect(t *testing.T) {
	v := SessionView{}
	got := v.Incorrect("der Tisch", "Der Tisch ist groß.")
	if !strings.Contains(got, "der Tisch") || !strings.Contains(got, "Der Tisch ist groß.") {
		t.Errorf("Incorrect = %q", got)
	}

	got = v.Incorrect("gehen", "")
	if strings.Contains(got, "\n") {
		t.Errorf("empty example should stay on one line: %q", got)
	}
}

func TestSessionView_Question(t *testing.T) {
	got := SessionView{}.Question("la mesa", 7)
	if !strings.Contains(got, "la mesa") || !strings.Contains(got, "7") {
		t.Errorf("Question = %q", got)
	}
}

func TestSessionView_Graduated(t *testing.T) {
	v := SessionView{}
	if got := v.Graduated("la mesa", session.ScorePerfect); !strings.Contains(got, "learned: ") {
		t.Errorf("perfect = %q", got)
	}
	if got := v.Graduated("la mesa", session.ScoreRecovered); !strings.Contains(got, "after a miss") {
		t.Errorf("recovered = %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	s := &session.Summary{
		Status:    session.StatusCompleted,
		Duration:  90 * time.Second,
		Graduated: 3,
		Perfect:   2,
		Recovered: 1,
		Attempts:  5,
		Correct:   3,
		Accuracy:  0.6,
	}
	view := RenderSummary(s, 60)
	for _, want := range []string{"Session complete", "Learned:", "3/5", "1m30s", "60%"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestRenderSummary_ExitedEarlyNoAttempts(t *testing.T) {
	s := &session.Summary{Status: session.StatusExitedEarly}
	view := RenderSummary(s, 60)
	if !strings.Contains(view, "Session ended early") {
		t.Error("expected early exit title")
	}
	if strings.Contains(view, "Accuracy") {
		t.Error("no accuracy bar without attempts")
	}
}
