package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions consumed by ent's migration engine. Column order matters:
// the first column of each table is its primary key.
var (
	gendersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "gender", Type: field.TypeString},
		{Name: "article", Type: field.TypeString},
	}
	gendersTable = &schema.Table{
		Name:       "genders",
		Columns:    gendersColumns,
		PrimaryKey: []*schema.Column{gendersColumns[0]},
	}

	levelsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "code", Type: field.TypeString, Unique: true},
	}
	levelsTable = &schema.Table{
		Name:       "levels",
		Columns:    levelsColumns,
		PrimaryKey: []*schema.Column{levelsColumns[0]},
	}

	wordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "gender_id", Type: field.TypeInt, Nullable: true},
		{Name: "word_de", Type: field.TypeString},
		{Name: "word_es", Type: field.TypeString},
		{Name: "plural", Type: field.TypeString, Nullable: true},
		{Name: "level_id", Type: field.TypeInt},
		{Name: "example_de", Type: field.TypeString, Default: ""},
		{Name: "example_es", Type: field.TypeString, Default: ""},
		{Name: "verb_aux", Type: field.TypeString, Nullable: true},
		{Name: "separable", Type: field.TypeBool, Nullable: true},
		{Name: "reflexive", Type: field.TypeBool, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "deleted_at", Type: field.TypeTime, Nullable: true},
	}
	wordsTable = &schema.Table{
		Name:       "words",
		Columns:    wordsColumns,
		PrimaryKey: []*schema.Column{wordsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "word_gender_id", Columns: []*schema.Column{wordsColumns[1]}},
			{Name: "word_level_id", Columns: []*schema.Column{wordsColumns[5]}},
		},
	}

	sentencesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sentence_es", Type: field.TypeString},
		{Name: "sentence_de", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "level_id", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "deleted_at", Type: field.TypeTime, Nullable: true},
	}
	sentencesTable = &schema.Table{
		Name:       "sentences",
		Columns:    sentencesColumns,
		PrimaryKey: []*schema.Column{sentencesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sentence_topic", Columns: []*schema.Column{sentencesColumns[3]}},
			{Name: "sentence_level_id", Columns: []*schema.Column{sentencesColumns[4]}},
		},
	}

	wordReviewsColumns     = reviewColumns()
	wordReviewsTable       = reviewTable("word_reviews", wordReviewsColumns)
	sentenceReviewsColumns = reviewColumns()
	sentenceReviewsTable   = reviewTable("sentence_reviews", sentenceReviewsColumns)

	wordAudiosColumns     = audioColumns()
	wordAudiosTable       = audioTable("word_audios", wordAudiosColumns)
	sentenceAudiosColumns = audioColumns()
	sentenceAudiosTable   = audioTable("sentence_audios", sentenceAudiosColumns)

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "target", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "detail", Type: field.TypeString, Default: ""},
	}
	sessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventsColumns[3]}},
			{Name: "sessionevent_timestamp", Columns: []*schema.Column{sessionEventsColumns[2]}},
		},
	}

	tables = []*schema.Table{
		gendersTable,
		levelsTable,
		wordsTable,
		sentencesTable,
		wordReviewsTable,
		sentenceReviewsTable,
		wordAudiosTable,
		sentenceAudiosTable,
		sessionEventsTable,
	}
)

func reviewColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "item_id", Type: field.TypeInt, Unique: true},
		{Name: "interval", Type: field.TypeInt},
		{Name: "ease_factor", Type: field.TypeFloat64},
		{Name: "repetitions", Type: field.TypeInt},
		{Name: "last_review", Type: field.TypeTime},
		{Name: "next_review", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
	}
}

func reviewTable(name string, cols []*schema.Column) *schema.Table {
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_next_review", Columns: []*schema.Column{cols[6]}},
		},
	}
}

func audioColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "item_id", Type: field.TypeInt, Unique: true},
		{Name: "audio_es", Type: field.TypeString, Default: ""},
		{Name: "audio_de", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
}

func audioTable(name string, cols []*schema.Column) *schema.Table {
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
}

// migrate creates or upgrades every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// reviewsTableFor returns the review table name for a target.
func reviewsTableFor(t Target) (string, error) {
	switch t {
	case TargetWords:
		return wordReviewsTable.Name, nil
	case TargetSentences:
		return sentenceReviewsTable.Name, nil
	}
	return "", fmt.Errorf("unknown target %q", t)
}

// audiosTableFor returns the audio table name for a target.
func audiosTableFor(t Target) (string, error) {
	switch t {
	case TargetWords:
		return wordAudiosTable.Name, nil
	case TargetSentences:
		return sentenceAudiosTable.Name, nil
	}
	return "", fmt.Errorf("unknown target %q", t)
}

// itemsTableFor returns the item table name for a target.
func itemsTableFor(t Target) (string, error) {
	switch t {
	case TargetWords:
		return wordsTable.Name, nil
	case TargetSentences:
		return sentencesTable.Name, nil
	}
	return "", fmt.Errorf("unknown target %q", t)
}
