package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

// DueSource lists the ids due for a section.
type DueSource interface {
	DueIDs(ctx context.Context, section store.Section, now time.Time) ([]int, error)
}

// DueFunc adapts a function to DueSource.
type DueFunc func(ctx context.Context, section store.Section, now time.Time) ([]int, error)

func (f DueFunc) DueIDs(ctx context.Context, section store.Section, now time.Time) ([]int, error) {
	return f(ctx, section, now)
}

// Planner builds the due queue a session consumes.
type Planner struct {
	Source DueSource

	// Rand shuffles the queue. Nil keeps the storage order.
	Rand *rand.Rand
}

// NewPlanner creates a planner. When shuffle is set the queue is shuffled
// with a randomly seeded source.
func NewPlanner(src DueSource, shuffle bool) *Planner {
	p := &Planner{Source: src}
	if shuffle {
		p.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// BuildQueue returns the ids due for section at now.
func (p *Planner) BuildQueue(ctx context.Context, section store.Section, now time.Time) ([]int, error) {
	ids, err := p.Source.DueIDs(ctx, section, now)
	if err != nil {
		return nil, fmt.Errorf("select %s items: %w", section, err)
	}
	if p.Rand != nil {
		p.Rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	}
	return ids, nil
}
