package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// EndOfDay returns the start of the day after now in now's location.
// Reviews scheduled before that instant are due today.
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// dbTime normalizes a time for storage and comparison. All stored times are
// UTC at second precision so their text form sorts chronologically.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// dueIDs selects the item ids of target that belong to section at now.
func dueIDs(ctx context.Context, db *sql.DB, target Target, section Section, now time.Time) ([]int, error) {
	switch section {
	case SectionNew:
		return newIDs(ctx, db, target)
	case SectionReview:
		return reviewIDs(ctx, db, target, EndOfDay(now))
	case SectionNewAndReview:
		due, err := reviewIDs(ctx, db, target, EndOfDay(now))
		if err != nil {
			return nil, err
		}
		fresh, err := newIDs(ctx, db, target)
		if err != nil {
			return nil, err
		}
		return append(due, fresh...), nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// newIDs returns the live items that have never been reviewed, by id.
func newIDs(ctx context.Context, db *sql.DB, target Target) ([]int, error) {
	items, err := itemsTableFor(target)
	if err != nil {
		return nil, err
	}
	reviews, err := reviewsTableFor(target)
	if err != nil {
		return nil, err
	}

	b := entsql.Dialect(dialect.SQLite)
	it := b.Table(items)
	rt := b.Table(reviews)
	query, args := b.Select(it.C("id")).
		From(it).
		LeftJoin(rt).On(it.C("id"), rt.C("item_id")).
		Where(entsql.And(
			entsql.IsNull(rt.C("item_id")),
			entsql.IsNull(it.C("deleted_at")),
		)).
		OrderBy(it.C("id")).
		Query()
	return queryIDs(ctx, db, query, args)
}

// reviewIDs returns the live items scheduled before cutoff, earliest first.
func reviewIDs(ctx context.Context, db *sql.DB, target Target, cutoff time.Time) ([]int, error) {
	items, err := itemsTableFor(target)
	if err != nil {
		return nil, err
	}
	reviews, err := reviewsTableFor(target)
	if err != nil {
		return nil, err
	}

	b := entsql.Dialect(dialect.SQLite)
	it := b.Table(items)
	rt := b.Table(reviews)
	query, args := b.Select(it.C("id")).
		From(it).
		Join(rt).On(it.C("id"), rt.C("item_id")).
		Where(entsql.And(
			entsql.LT(rt.C("next_review"), dbTime(cutoff)),
			entsql.IsNull(it.C("deleted_at")),
		)).
		OrderBy(rt.C("next_review"), it.C("id")).
		Query()
	return queryIDs(ctx, db, query, args)
}

func queryIDs(ctx context.Context, db *sql.DB, query string, args []any) ([]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// intArgs converts ids to builder arguments.
func intArgs(ids []int) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// nullString maps an empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullPtr maps a nil pointer to NULL.
func nullPtr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrFromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func ptrFromNullBool(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}
