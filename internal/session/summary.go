package session

import "time"

// Summary holds the data shown when a session ends.
type Summary struct {
	Status    Status
	Duration  time.Duration
	Graduated int
	Perfect   int // graduated without a miss
	Recovered int // graduated after at least one miss
	Attempts  int
	Correct   int
	Accuracy  float64
}

// BuildSummary creates a Summary from a session result.
func BuildSummary(res *Result, elapsed time.Duration) *Summary {
	s := &Summary{
		Status:    res.Status,
		Duration:  elapsed,
		Graduated: len(res.Graded),
		Attempts:  res.Progress.Attempts,
		Correct:   res.Progress.Correct,
		Accuracy:  res.Progress.Accuracy,
	}
	for _, g := range res.Graded {
		if g.Quality == ScorePerfect {
			s.Perfect++
		} else {
			s.Recovered++
		}
	}
	return s
}
