package session

import (
	"errors"

	"github.com/anki-sentences/anki-sentences/internal/spacedrep"
)

// ExitCommand ends a session early when typed at any prompt.
const ExitCommand = "exit"

// ErrEndOfInput is returned by a Prompter when its input is exhausted. It is
// fatal for the session.
var ErrEndOfInput = errors.New("end of input")

// Status tells how a session ended.
type Status int

const (
	// StatusCompleted means every queued item graduated.
	StatusCompleted Status = iota
	// StatusExitedEarly means the learner typed the exit command.
	StatusExitedEarly
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusExitedEarly:
		return "exited"
	}
	return "unknown"
}

// Result is what a session hands to the scheduler: the graded items in
// graduation order plus how the session ended.
type Result struct {
	Status Status
	Graded []spacedrep.Grade

	// Progress counts every answer given during the session.
	Progress Progress
}

// Mastery scores emitted on graduation.
const (
	ScoreRecovered = 1 // missed at least once this session
	ScorePerfect   = 2 // never missed
)

// ledgerEntry tracks one item's progress toward graduation. It exists from
// the item's first answer until it graduates.
type ledgerEntry struct {
	onceMissed    bool
	confirmations int
}

// window is the FIFO of items currently being quizzed.
type window[T any] struct {
	items []T
}

func (w *window[T]) Len() int { return len(w.items) }

func (w *window[T]) Front() T { return w.items[0] }

// Rotate moves the front item to the back.
func (w *window[T]) Rotate() {
	if len(w.items) < 2 {
		return
	}
	front := w.items[0]
	copy(w.items, w.items[1:])
	w.items[len(w.items)-1] = front
}

// PopFront removes the front item.
func (w *window[T]) PopFront() {
	var zero T
	w.items[0] = zero
	w.items = w.items[1:]
}

func (w *window[T]) PushBack(item T) {
	w.items = append(w.items, item)
}

// run is the mutable state of one session. It is owned by a single Run call.
type run[T any] struct {
	window window[T]
	queue  []int
	ledger map[int]ledgerEntry
	result Result
}

func newRun[T any](initial []T, queue []int) *run[T] {
	return &run[T]{
		window: window[T]{items: initial},
		queue:  queue,
		ledger: make(map[int]ledgerEntry),
	}
}

// Remaining is the number of items still to graduate.
func (r *run[T]) Remaining() int {
	return r.window.Len() + len(r.queue)
}
