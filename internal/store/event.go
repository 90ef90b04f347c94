package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence stamped on every
// session event. Row ids alone can't be trusted for ordering once rows are
// copied between databases.
//
// Uses raw SQL outside the builders because the increment has to be atomic
// at the database level. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "target", "action", "item_id", "score", "detail").
		Values(seqNum, dbTime(time.Now()), data.SessionID, string(data.Target), data.Action,
			data.ItemID, data.Score, data.Detail).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

var sessionEventColumns = []string{"sequence", "timestamp", "session_id", "target", "action", "item_id", "score", "detail"}

// QuerySessionEvents returns the events of one session in sequence order.
func (r *eventRepo) QuerySessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()
	return r.querySessionEvents(ctx, query, args)
}

// RecentSessions returns the end events of the last limit finished
// sessions, newest first.
func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable.Name)).
		Where(entsql.EQ("action", ActionEnd)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()
	return r.querySessionEvents(ctx, query, args)
}

func (r *eventRepo) querySessionEvents(ctx context.Context, query string, args []any) ([]SessionEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var (
			rec    SessionEventRecord
			target string
		)
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &target, &rec.Action,
			&rec.ItemID, &rec.Score, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Target = Target(target)
		out = append(out, rec)
	}
	return out, rows.Err()
}
