package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

func staticDue(ids ...int) DueFunc {
	return func(_ context.Context, _ store.Section, _ time.Time) ([]int, error) {
		return append([]int(nil), ids...), nil
	}
}

func TestPlanBatch(t *testing.T) {
	tests := []struct {
		name        string
		due         []int
		batch       int
		wantInitial []int
		wantQueue   []int
	}{
		{"fewer than batch", []int{1, 2}, 5, []int{1, 2}, []int{}},
		{"exact batch", []int{1, 2, 3}, 3, []int{1, 2, 3}, []int{}},
		{"more than batch", []int{4, 5, 6, 7}, 2, []int{4, 5}, []int{6, 7}},
		{"empty", nil, 3, []int{}, []int{}},
		{"zero batch", []int{1}, 0, []int{}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PlanBatch(tt.due, tt.batch)
			if !slices.Equal(p.Initial, tt.wantInitial) {
				t.Errorf("Initial = %v, want %v", p.Initial, tt.wantInitial)
			}
			if !slices.Equal(p.Queue, tt.wantQueue) {
				t.Errorf("Queue = %v, want %v", p.Queue, tt.wantQueue)
			}
		})
	}
}

func TestPlanBatch_DoesNotAliasInput(t *testing.T) {
	due := []int{1, 2, 3}
	p := PlanBatch(due, 2)
	p.Initial[0] = 99
	p.Queue[0] = 98
	if due[0] != 1 || due[2] != 3 {
		t.Errorf("input modified: %v", due)
	}
}

func TestBuildQueue_KeepsOrderWithoutShuffle(t *testing.T) {
	p := NewPlanner(staticDue(3, 1, 2), false)
	got, err := p.BuildQueue(context.Background(), store.SectionReview, time.Now())
	if err != nil {
		t.Fatalf("BuildQueue: %v", err)
	}
	if !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("got %v, want [3 1 2]", got)
	}
}

func TestBuildQueue_ShuffleKeepsMembers(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	p := &Planner{Source: staticDue(ids...), Rand: rand.New(rand.NewPCG(1, 2))}

	got, err := p.BuildQueue(context.Background(), store.SectionNew, time.Now())
	if err != nil {
		t.Fatalf("BuildQueue: %v", err)
	}
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if !slices.Equal(sorted, ids) {
		t.Errorf("shuffled queue %v lost or duplicated ids", got)
	}
}

func TestBuildQueue_PassesSectionThrough(t *testing.T) {
	var gotSection store.Section
	src := DueFunc(func(_ context.Context, s store.Section, _ time.Time) ([]int, error) {
		gotSection = s
		return nil, nil
	})
	if _, err := NewPlanner(src, false).BuildQueue(context.Background(), store.SectionNewAndReview, time.Now()); err != nil {
		t.Fatalf("BuildQueue: %v", err)
	}
	if gotSection != store.SectionNewAndReview {
		t.Errorf("section = %q", gotSection)
	}
}

func TestBuildQueue_WrapsSourceError(t *testing.T) {
	boom := errors.New("locked")
	src := DueFunc(func(context.Context, store.Section, time.Time) ([]int, error) { return nil, boom })
	_, err := NewPlanner(src, true).BuildQueue(context.Background(), store.SectionNew, time.Now())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}
}
