package session

// DefaultBatchSize is the size of the active window when none is given.
const DefaultBatchSize = 20

// Plan splits a session's due ids into the first batch and the queue used to
// refill the window as items graduate.
type Plan struct {
	Initial []int
	Queue   []int
}

// PlanBatch takes the first batchSize ids (or all of them when fewer are due)
// as the initial batch. The input slice is not modified.
func PlanBatch(dueIDs []int, batchSize int) Plan {
	take := min(max(batchSize, 0), len(dueIDs))
	return Plan{
		Initial: append([]int(nil), dueIDs[:take]...),
		Queue:   append([]int(nil), dueIDs[take:]...),
	}
}
