package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/anki-sentences/anki-sentences/internal/session"
	"github.com/anki-sentences/anki-sentences/internal/ui/components"
	"github.com/anki-sentences/anki-sentences/internal/ui/theme"
)

// ErrCancelled is returned by Choose when the learner backs out.
var ErrCancelled = errors.New("cancelled")

// TeaPrompter reads each answer with a one-line interactive program.
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

// PromptLine runs a text input until enter is pressed. ctrl+c and ctrl+d end
// input.
func (p *TeaPrompter) PromptLine(prompt string) (string, error) {
	prog := tea.NewProgram(newLineModel(prompt), tea.WithInput(p.In), tea.WithOutput(p.Out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m := final.(lineModel)
	if m.aborted {
		return "", session.ErrEndOfInput
	}
	return strings.TrimSpace(m.input.Value()), nil
}

type lineModel struct {
	input   components.TextInput
	aborted bool
}

func newLineModel(prompt string) lineModel {
	return lineModel{input: components.NewTextInput(prompt, "", 0)}
}

func (m lineModel) Init() tea.Cmd {
	return m.input.Init()
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			m.input.Submit()
			return m, tea.Quit
		case "ctrl+c", "ctrl+d":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineModel) View() tea.View {
	return tea.NewView(m.input.View() + "\n")
}

// Choose shows a menu and returns the value of the chosen item.
func Choose(in io.Reader, out io.Writer, title string, items []components.MenuItem) (string, error) {
	prog := tea.NewProgram(newChooseModel(title, items), tea.WithInput(in), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("run menu: %w", err)
	}
	m := final.(chooseModel)
	if !m.menu.Chosen {
		return "", ErrCancelled
	}
	return m.menu.Value(), nil
}

type chooseModel struct {
	title string
	menu  components.Menu
}

func newChooseModel(title string, items []components.MenuItem) chooseModel {
	return chooseModel{title: title, menu: components.NewMenu(items)}
}

func (m chooseModel) Init() tea.Cmd {
	return nil
}

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	m.menu, _ = m.menu.Update(msg)
	if m.menu.Chosen {
		return m, tea.Quit
	}
	return m, nil
}

func (m chooseModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m chooseModel) render() string {
	if m.menu.Chosen {
		return theme.Title.Render(m.title) + " " + theme.Body.Render(m.menu.Value()) + "\n"
	}
	return theme.Title.Render(m.title) + "\n" + m.menu.View() + theme.Hint.Render("↑↓ move · enter select · esc cancel") + "\n"
}
