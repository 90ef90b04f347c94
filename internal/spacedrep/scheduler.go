package spacedrep

import (
	"context"
	"fmt"
	"time"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Grade is the mastery score a study session assigned to one item.
type Grade struct {
	ItemID  int
	Quality int
}

// Scheduler turns the grades of a finished session into persisted review
// schedules.
type Scheduler struct {
	repo store.ReviewRepo
}

// NewScheduler creates a scheduler backed by the given review repository.
func NewScheduler(repo store.ReviewRepo) *Scheduler {
	return &Scheduler{repo: repo}
}

// Plan loads the current state of every graded item (or starts a fresh one),
// applies the grade, and returns the rows that would be stored. Nothing is
// written.
func (s *Scheduler) Plan(ctx context.Context, target store.Target, grades []Grade, now time.Time) ([]store.ReviewRecord, error) {
	if len(grades) == 0 {
		return nil, nil
	}

	ids := make([]int, len(grades))
	for i, g := range grades {
		ids[i] = g.ItemID
	}

	existing, err := s.repo.FetchReviews(ctx, target, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch review states: %w", err)
	}

	now = now.UTC().Truncate(time.Second)
	rows := make([]store.ReviewRecord, 0, len(grades))
	for _, g := range grades {
		state := New()
		if rec, ok := existing[g.ItemID]; ok {
			state = FromPersisted(rec.Interval, rec.EaseFactor, rec.Repetitions)
		}

		state = state.Review(g.Quality).Rounded()
		rows = append(rows, store.ReviewRecord{
			ItemID:      g.ItemID,
			Interval:    state.Interval,
			EaseFactor:  state.EaseFactor,
			Repetitions: state.Repetitions,
			LastReview:  now,
			NextReview:  state.NextReviewDate(now),
		})
	}
	return rows, nil
}

// Apply plans the new schedules and commits them as a single batch. If the
// batch fails no schedule is changed and the error is returned.
func (s *Scheduler) Apply(ctx context.Context, target store.Target, grades []Grade, now time.Time) ([]store.ReviewRecord, error) {
	rows, err := s.Plan(ctx, target, grades, now)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if err := s.repo.UpsertReviews(ctx, target, rows); err != nil {
		return nil, fmt.Errorf("upsert review states: %w", err)
	}
	return rows, nil
}
