package session

// Progress counts the answers given during a session, retries included.
type Progress struct {
	Attempts int
	Correct  int
	Misses   int
	Accuracy float64 // Correct / Attempts (computed)
}

// Record adds one answer to the progress.
func (p *Progress) Record(correct bool) {
	p.Attempts++
	if correct {
		p.Correct++
	} else {
		p.Misses++
	}
	p.Accuracy = float64(p.Correct) / float64(p.Attempts)
}
