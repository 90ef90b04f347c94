// Package prompt reads learner input, either line by line from any reader or
// through a small interactive program when attached to a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/anki-sentences/anki-sentences/internal/session"
)

// LinePrompter reads newline-terminated answers from a reader.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompter creates a prompter that writes prompts to w and reads
// answers from r.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

// PromptLine writes prompt and returns the next trimmed line. A final line
// without a newline is still returned; after that session.ErrEndOfInput.
func (p *LinePrompter) PromptLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.w, prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", session.ErrEndOfInput
			}
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("read line: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether both in and out are terminals. Full-screen
// prompts and styled output are only used then.
func Interactive(in, out *os.File) bool {
	return IsTerminal(in) && IsTerminal(out)
}

// New returns the interactive prompter when interactive is set and the plain
// line reader otherwise.
func New(in io.Reader, out io.Writer, interactive bool) session.Prompter {
	if interactive {
		return &TeaPrompter{In: in, Out: out}
	}
	return NewLinePrompter(in, out)
}
