package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Reference rows. Ids are stable and referenced by imported data.
var (
	seedGenders = []Gender{
		{ID: 0, Name: "masculine", Article: "der"},
		{ID: 1, Name: "feminine", Article: "die"},
		{ID: 2, Name: "neuter", Article: "das"},
		{ID: 3, Name: "plural", Article: "die"},
	}
	seedLevels = []Level{
		{ID: 0, Code: "A1"},
		{ID: 1, Code: "A2"},
		{ID: 2, Code: "B1"},
		{ID: 3, Code: "B2"},
		{ID: 4, Code: "C1"},
		{ID: 5, Code: "C2"},
	}
)

// seed inserts the reference rows. Existing rows are left untouched.
func seed(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		b := entsql.Dialect(dialect.SQLite)
		for _, g := range seedGenders {
			query, args := b.Insert(gendersTable.Name).
				Columns("id", "gender", "article").
				Values(g.ID, g.Name, g.Article).
				OnConflict(entsql.DoNothing()).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("seed gender %q: %w", g.Name, err)
			}
		}
		for _, l := range seedLevels {
			query, args := b.Insert(levelsTable.Name).
				Columns("id", "code").
				Values(l.ID, l.Code).
				OnConflict(entsql.DoNothing()).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("seed level %q: %w", l.Code, err)
			}
		}
		return nil
	})
}

type catalogRepo struct {
	db *sql.DB
}

func (r *catalogRepo) Genders(ctx context.Context) ([]Gender, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "gender", "article").
		From(entsql.Table(gendersTable.Name)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query genders: %w", err)
	}
	defer rows.Close()

	var out []Gender
	for rows.Next() {
		var g Gender
		if err := rows.Scan(&g.ID, &g.Name, &g.Article); err != nil {
			return nil, fmt.Errorf("scan gender: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *catalogRepo) Levels(ctx context.Context) ([]Level, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "code").
		From(entsql.Table(levelsTable.Name)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	defer rows.Close()

	var out []Level
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.ID, &l.Code); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
