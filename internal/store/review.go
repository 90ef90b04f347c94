package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type reviewRepo struct {
	db *sql.DB
}

func (r *reviewRepo) FetchReviews(ctx context.Context, target Target, ids []int) (map[int]ReviewRecord, error) {
	table, err := reviewsTableFor(target)
	if err != nil {
		return nil, err
	}
	out := make(map[int]ReviewRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Select("item_id", "interval", "ease_factor", "repetitions", "last_review", "next_review").
		From(entsql.Table(table)).
		Where(entsql.In("item_id", intArgs(ids)...)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ReviewRecord
		if err := rows.Scan(&rec.ItemID, &rec.Interval, &rec.EaseFactor, &rec.Repetitions,
			&rec.LastReview, &rec.NextReview); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[rec.ItemID] = rec
	}
	return out, rows.Err()
}

func (r *reviewRepo) UpsertReviews(ctx context.Context, target Target, recs []ReviewRecord) error {
	table, err := reviewsTableFor(target)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	now := dbTime(time.Now())
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		b := entsql.Dialect(dialect.SQLite)
		for _, rec := range recs {
			query, args := b.Insert(table).
				Columns("item_id", "interval", "ease_factor", "repetitions", "last_review", "next_review", "created_at").
				Values(rec.ItemID, rec.Interval, rec.EaseFactor, rec.Repetitions,
					dbTime(rec.LastReview), dbTime(rec.NextReview), now).
				OnConflict(
					entsql.ConflictColumns("item_id"),
					entsql.ResolveWith(func(u *entsql.UpdateSet) {
						u.SetExcluded("interval")
						u.SetExcluded("ease_factor")
						u.SetExcluded("repetitions")
						u.SetExcluded("last_review")
						u.SetExcluded("next_review")
					}),
				).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert %s item %d: %w", table, rec.ItemID, err)
			}
		}
		return nil
	})
}

func (r *reviewRepo) CountDue(ctx context.Context, target Target, cutoff time.Time) (int, int, error) {
	fresh, err := newIDs(ctx, r.db, target)
	if err != nil {
		return 0, 0, fmt.Errorf("count new: %w", err)
	}
	due, err := reviewIDs(ctx, r.db, target, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("count due: %w", err)
	}
	return len(fresh), len(due), nil
}
