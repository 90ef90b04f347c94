package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var wordSelectColumns = []string{
	"id", "gender_id", "word_de", "word_es", "plural", "level_id",
	"example_de", "example_es", "verb_aux", "separable", "reflexive", "created_at",
}

type wordRepo struct {
	db *sql.DB
}

func (r *wordRepo) InsertWords(ctx context.Context, words []NewWord) ([]int, error) {
	if len(words) == 0 {
		return nil, nil
	}

	now := dbTime(time.Now())
	ids := make([]int, 0, len(words))
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		b := entsql.Dialect(dialect.SQLite)
		for i, w := range words {
			query, args := b.Insert(wordsTable.Name).
				Columns("gender_id", "word_de", "word_es", "plural", "level_id",
					"example_de", "example_es", "verb_aux", "separable", "reflexive", "created_at").
				Values(nullPtr(w.GenderID), w.German, w.Spanish, nullString(w.Plural), w.LevelID,
					w.ExampleDE, w.ExampleES, nullString(w.VerbAux), nullPtr(w.Separable), nullPtr(w.Reflexive), now).
				Query()
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert word %d (%q): %w", i+1, w.German, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert word %d: last insert id: %w", i+1, err)
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

func (r *wordRepo) FetchWords(ctx context.Context, ids []int) ([]Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Select(wordSelectColumns...).
		From(entsql.Table(wordsTable.Name)).
		Where(entsql.And(
			entsql.In("id", intArgs(ids)...),
			entsql.IsNull("deleted_at"),
		)).
		OrderBy("word_de", "id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var (
			w         Word
			genderID  sql.NullInt64
			plural    sql.NullString
			verbAux   sql.NullString
			separable sql.NullBool
			reflexive sql.NullBool
		)
		if err := rows.Scan(&w.ID, &genderID, &w.German, &w.Spanish, &plural, &w.LevelID,
			&w.ExampleDE, &w.ExampleES, &verbAux, &separable, &reflexive, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.GenderID = ptrFromNullInt(genderID)
		w.Plural = plural.String
		w.VerbAux = verbAux.String
		w.Separable = ptrFromNullBool(separable)
		w.Reflexive = ptrFromNullBool(reflexive)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *wordRepo) DueWordIDs(ctx context.Context, section Section, now time.Time) ([]int, error) {
	return dueIDs(ctx, r.db, TargetWords, section, now)
}
