package spacedrep

import (
	"math"
	"time"
)

// Scheduler defaults and bounds.
const (
	InitialInterval   = 1
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// PassQuality is the lowest quality that counts as a successful review.
	PassQuality = 2
	// MaxQuality is the highest quality a review can report.
	MaxQuality = 3
)

// ReviewState holds the SM-2 scheduling state for a single study item.
type ReviewState struct {
	Interval    int     `json:"interval"`
	EaseFactor  float64 `json:"ease_factor"`
	Repetitions int     `json:"repetitions"`
}

// New returns the state of an item that has never been reviewed.
func New() ReviewState {
	return ReviewState{
		Interval:    InitialInterval,
		EaseFactor:  InitialEaseFactor,
		Repetitions: 0,
	}
}

// FromPersisted rebuilds a state from stored values, clamping anything
// outside the scheduler's invariants.
func FromPersisted(interval int, easeFactor float64, repetitions int) ReviewState {
	return ReviewState{
		Interval:    max(interval, InitialInterval),
		EaseFactor:  math.Max(easeFactor, MinEaseFactor),
		Repetitions: max(repetitions, 0),
	}
}

// Review applies one review of the given quality (0..3) and returns the
// resulting state. Qualities below PassQuality reset the progression.
func (rs ReviewState) Review(quality int) ReviewState {
	quality = min(max(quality, 0), MaxQuality)

	if quality < PassQuality {
		rs.Repetitions = 0
		rs.Interval = InitialInterval
		rs.EaseFactor = math.Max(rs.EaseFactor-0.2, MinEaseFactor)
		return rs
	}

	rs.Repetitions++
	switch rs.Repetitions {
	case 1:
		rs.Interval = 1
	case 2:
		rs.Interval = 2
	case 3:
		rs.Interval = 4
	default:
		rs.Interval = int(math.Round(float64(rs.Interval) * rs.EaseFactor))
	}

	miss := float64(MaxQuality - quality)
	ef := rs.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	rs.EaseFactor = math.Max(ef, MinEaseFactor)

	return rs
}

// Rounded returns the state with the ease factor rounded to three decimals,
// the precision it is stored with.
func (rs ReviewState) Rounded() ReviewState {
	rs.EaseFactor = math.Round(rs.EaseFactor*1000) / 1000
	return rs
}

// NextReviewDate returns the instant the item is due again, counted from.
func (rs ReviewState) NextReviewDate(from time.Time) time.Time {
	return from.Add(time.Duration(rs.Interval) * 24 * time.Hour)
}
