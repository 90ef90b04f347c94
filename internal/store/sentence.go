package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type sentenceRepo struct {
	db *sql.DB
}

func (r *sentenceRepo) InsertSentences(ctx context.Context, sentences []NewSentence) ([]int, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	now := dbTime(time.Now())
	ids := make([]int, 0, len(sentences))
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		b := entsql.Dialect(dialect.SQLite)
		for i, s := range sentences {
			query, args := b.Insert(sentencesTable.Name).
				Columns("sentence_es", "sentence_de", "topic", "level_id", "created_at").
				Values(s.Spanish, s.German, s.Topic, s.LevelID, now).
				Query()
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert sentence %d: %w", i+1, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert sentence %d: last insert id: %w", i+1, err)
			}
			ids = append(ids, int(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sentenceRepo) FetchSentences(ctx context.Context, ids []int) ([]Sentence, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sentence_es", "sentence_de", "topic", "level_id", "created_at").
		From(entsql.Table(sentencesTable.Name)).
		Where(entsql.And(
			entsql.In("id", intArgs(ids)...),
			entsql.IsNull("deleted_at"),
		)).
		OrderBy("sentence_de", "id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()

	var out []Sentence
	for rows.Next() {
		var s Sentence
		if err := rows.Scan(&s.ID, &s.Spanish, &s.German, &s.Topic, &s.LevelID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sentenceRepo) DueSentenceIDs(ctx context.Context, section Section, now time.Time) ([]int, error) {
	return dueIDs(ctx, r.db, TargetSentences, section, now)
}

// Topics returns the distinct topics of live sentences, sorted.
func (r *sentenceRepo) Topics(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("topic").
		Distinct().
		From(entsql.Table(sentencesTable.Name)).
		Where(entsql.IsNull("deleted_at")).
		OrderBy("topic").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, topic)
	}
	return out, rows.Err()
}
