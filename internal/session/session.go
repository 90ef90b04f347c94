// Package session runs an interactive study session over a queue of due
// items and grades every item that graduates.
//
// An item graduates after two correct answers in a row. A miss reveals the
// answer, makes the learner type it once (ungraded) and restarts the count.
// Items that graduate without a miss score ScorePerfect, the rest
// ScoreRecovered.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anki-sentences/anki-sentences/internal/spacedrep"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Engine drives sessions for one kind of item.
type Engine[T any] struct {
	Kind     Kind[T]
	Fetcher  Fetcher[T]
	Prompter Prompter

	// Audio is optional.
	Audio AudioSource

	// View defaults to PlainView.
	View View

	// Out receives questions and verdicts; defaults to os.Stdout.
	Out io.Writer

	// Warn receives non-fatal problems; defaults to os.Stderr.
	Warn io.Writer

	// Events and SessionID are optional. When set, lifecycle events are
	// appended to the event log: start and audio errors while running,
	// graduations and the end from Finish.
	Events    store.EventRepo
	SessionID string
}

// Run quizzes the learner on dueIDs, keeping at most batchSize items in the
// active window. It returns the graded items and how the session ended.
// Errors are fatal: nothing in the returned result should be persisted.
func (e *Engine[T]) Run(ctx context.Context, dueIDs []int, batchSize int) (*Result, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	e.defaults()

	plan := PlanBatch(dueIDs, batchSize)
	initial, err := e.fetch(ctx, plan.Initial)
	if err != nil {
		return nil, err
	}

	r := newRun(initial, plan.Queue)
	e.record(ctx, store.SessionEventData{
		Action: store.ActionStart,
		Detail: fmt.Sprintf("due=%d batch=%d", len(dueIDs), batchSize),
	})

	status, err := e.loop(ctx, r)
	if err != nil {
		e.record(context.WithoutCancel(ctx), store.SessionEventData{
			Action: store.ActionEnd,
			Detail: "aborted: " + err.Error(),
		})
		return nil, err
	}
	r.result.Status = status
	return &r.result, nil
}

// Finish records the graduations and the end of a session once the caller
// tried to persist res. saveErr is the outcome of that attempt; when it is
// non-nil no graduation is recorded and the end event carries the failure.
func (e *Engine[T]) Finish(ctx context.Context, res *Result, saveErr error) {
	e.defaults()
	if saveErr != nil {
		e.record(ctx, store.SessionEventData{
			Action: store.ActionEnd,
			Detail: fmt.Sprintf("%s, not saved: %v", res.Status, saveErr),
		})
		return
	}

	for _, g := range res.Graded {
		e.record(ctx, store.SessionEventData{Action: store.ActionGraduate, ItemID: g.ItemID, Score: g.Quality})
	}
	e.record(ctx, store.SessionEventData{
		Action: store.ActionEnd,
		Score:  len(res.Graded),
		Detail: res.Status.String(),
	})
}

func (e *Engine[T]) loop(ctx context.Context, r *run[T]) (Status, error) {
	for r.window.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		current := r.window.Front()
		id := e.Kind.ID(current)

		fmt.Fprintln(e.Out, e.View.Question(e.Kind.Question(current), r.Remaining()))
		e.playAudio(ctx, id)

		input, err := e.prompt(e.View.InputPrompt())
		if err != nil {
			return 0, err
		}
		if input == ExitCommand {
			return StatusExitedEarly, nil
		}

		correct := e.Kind.Check(current, input)
		r.result.Progress.Record(correct)

		if !correct {
			r.ledger[id] = ledgerEntry{onceMissed: true, confirmations: 0}
			fmt.Fprintln(e.Out, e.View.Incorrect(e.Kind.Answer(current), e.Kind.Example(current)))

			exited, err := e.retry(current)
			if err != nil {
				return 0, err
			}
			if exited {
				return StatusExitedEarly, nil
			}
			r.window.Rotate()
			continue
		}

		fmt.Fprintln(e.Out, e.View.Correct())

		entry, seen := r.ledger[id]
		switch {
		case !seen:
			r.ledger[id] = ledgerEntry{onceMissed: false, confirmations: 1}
			r.window.Rotate()
		case entry.confirmations < 1:
			entry.confirmations = 1
			r.ledger[id] = entry
			r.window.Rotate()
		default:
			if err := e.graduate(ctx, r, current, entry); err != nil {
				return 0, err
			}
		}
	}
	return StatusCompleted, nil
}

// retry blocks until the learner types the canonical answer or exits.
// Retries are not graded.
func (e *Engine[T]) retry(current T) (exited bool, err error) {
	for {
		input, err := e.prompt(e.View.RetryPrompt())
		if err != nil {
			return false, err
		}
		if input == ExitCommand {
			return true, nil
		}
		if e.Kind.Check(current, input) {
			return false, nil
		}
	}
}

// graduate emits the item's score, removes it from the window and refills
// the window from the queue.
func (e *Engine[T]) graduate(ctx context.Context, r *run[T], current T, entry ledgerEntry) error {
	id := e.Kind.ID(current)
	score := ScorePerfect
	if entry.onceMissed {
		score = ScoreRecovered
	}

	r.result.Graded = append(r.result.Graded, spacedrep.Grade{ItemID: id, Quality: score})
	r.window.PopFront()
	delete(r.ledger, id)
	fmt.Fprintln(e.Out, e.View.Graduated(e.Kind.Question(current), score))

	// Ids whose record vanished are skipped so the window keeps its size.
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		items, err := e.fetch(ctx, []int{next})
		if err != nil {
			return err
		}
		if len(items) > 0 {
			r.window.PushBack(items[0])
			break
		}
	}
	return nil
}

func (e *Engine[T]) fetch(ctx context.Context, ids []int) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items, err := e.Fetcher.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", e.Kind.Target, err)
	}
	return items, nil
}

func (e *Engine[T]) prompt(text string) (string, error) {
	line, err := e.Prompter.PromptLine(text)
	if err != nil {
		if errors.Is(err, ErrEndOfInput) {
			return "", ErrEndOfInput
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// playAudio plays the item's audio if there is any. Failures only warn.
func (e *Engine[T]) playAudio(ctx context.Context, id int) {
	if e.Audio == nil {
		return
	}
	path, ok, err := e.Audio.Lookup(e.Kind.Target, id)
	if err == nil && ok {
		err = e.Audio.Play(ctx, path)
	}
	if err != nil {
		fmt.Fprintf(e.Warn, "warning: audio for %s %d: %v\n", e.Kind.Target, id, err)
		e.record(ctx, store.SessionEventData{Action: store.ActionAudioError, ItemID: id, Detail: err.Error()})
	}
}

func (e *Engine[T]) record(ctx context.Context, data store.SessionEventData) {
	if e.Events == nil || e.SessionID == "" {
		return
	}
	data.SessionID = e.SessionID
	data.Target = e.Kind.Target
	if err := e.Events.AppendSessionEvent(ctx, data); err != nil {
		fmt.Fprintf(e.Warn, "warning: failed to record %s event: %v\n", data.Action, err)
	}
}

func (e *Engine[T]) defaults() {
	if e.View == nil {
		e.View = PlainView{}
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Warn == nil {
		e.Warn = os.Stderr
	}
}
