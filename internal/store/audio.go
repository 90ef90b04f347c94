package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type audioRepo struct {
	db *sql.DB
}

func (r *audioRepo) FetchAudio(ctx context.Context, target Target, ids []int) (map[int]AudioRecord, error) {
	table, err := audiosTableFor(target)
	if err != nil {
		return nil, err
	}
	out := make(map[int]AudioRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Select("item_id", "audio_es", "audio_de", "created_at").
		From(entsql.Table(table)).
		Where(entsql.In("item_id", intArgs(ids)...)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec AudioRecord
		if err := rows.Scan(&rec.ItemID, &rec.AudioES, &rec.AudioDE, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[rec.ItemID] = rec
	}
	return out, rows.Err()
}

// UpsertAudio stores the rows in one transaction. Empty file names never
// overwrite a name already recorded for the other language.
func (r *audioRepo) UpsertAudio(ctx context.Context, target Target, recs []AudioRecord) error {
	table, err := audiosTableFor(target)
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
				Columns("item_id", "audio_es", "audio_de", "created_at").
				Values(rec.ItemID, rec.AudioES, rec.AudioDE, now).
				OnConflict(
					entsql.ConflictColumns("item_id"),
					entsql.ResolveWith(func(u *entsql.UpdateSet) {
						if rec.AudioES != "" {
							u.SetExcluded("audio_es")
						}
						if rec.AudioDE != "" {
							u.SetExcluded("audio_de")
						}
						if rec.AudioES == "" && rec.AudioDE == "" {
							u.SetIgnore("created_at")
						}
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

func (r *audioRepo) MissingAudioIDs(ctx context.Context, target Target, lang string, afterID, limit int) ([]int, error) {
	var column string
	switch lang {
	case "es":
		column = "audio_es"
	case "de":
		column = "audio_de"
	default:
		return nil, fmt.Errorf("unknown audio language %q", lang)
	}

	items, err := itemsTableFor(target)
	if err != nil {
		return nil, err
	}
	audios, err := audiosTableFor(target)
	if err != nil {
		return nil, err
	}

	b := entsql.Dialect(dialect.SQLite)
	it := b.Table(items)
	at := b.Table(audios)
	sel := b.Select(it.C("id")).
		From(it).
		LeftJoin(at).On(it.C("id"), at.C("item_id")).
		Where(entsql.And(
			entsql.Or(
				entsql.IsNull(at.C("item_id")),
				entsql.EQ(at.C(column), ""),
			),
			entsql.IsNull(it.C("deleted_at")),
			entsql.GT(it.C("id"), afterID),
		)).
		OrderBy(it.C("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()
	return queryIDs(ctx, r.db, query, args)
}
