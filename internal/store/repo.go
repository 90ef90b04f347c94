package store

import (
	"context"
	"time"
)

// Target selects which kind of study item a repository call operates on.
type Target string

const (
	TargetWords     Target = "words"
	TargetSentences Target = "sentences"
)

// Valid reports whether t names a known target.
func (t Target) Valid() bool {
	return t == TargetWords || t == TargetSentences
}

// Section selects which items are due for a review session.
type Section string

const (
	SectionNew          Section = "new"
	SectionReview       Section = "review"
	SectionNewAndReview Section = "new-and-review"
)

// ParseSection validates a section name.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionNew, SectionReview, SectionNewAndReview:
		return Section(s), true
	}
	return "", false
}

// Gender is a grammatical gender and the definite article it takes.
type Gender struct {
	ID      int
	Name    string
	Article string
}

// Level is a CEFR proficiency level (A1..C2).
type Level struct {
	ID   int
	Code string
}

// Word is a vocabulary entry. The German form is what the learner types.
type Word struct {
	ID        int
	GenderID  *int
	German    string
	Spanish   string
	Plural    string
	LevelID   int
	ExampleDE string
	ExampleES string

	// Verbs only.
	VerbAux   string
	Separable *bool
	Reflexive *bool

	CreatedAt time.Time
}

// NewWord is the insert shape of a Word.
type NewWord struct {
	GenderID  *int
	German    string
	Spanish   string
	Plural    string
	LevelID   int
	ExampleDE string
	ExampleES string
	VerbAux   string
	Separable *bool
	Reflexive *bool
}

// Sentence is a Spanish prompt paired with the German translation the
// learner has to type.
type Sentence struct {
	ID        int
	Spanish   string
	German    string
	Topic     string
	LevelID   int
	CreatedAt time.Time
}

// NewSentence is the insert shape of a Sentence.
type NewSentence struct {
	Spanish string
	German  string
	Topic   string
	LevelID int
}

// ReviewRecord is the persisted scheduler state of one item.
type ReviewRecord struct {
	ItemID      int
	Interval    int
	EaseFactor  float64
	Repetitions int
	LastReview  time.Time
	NextReview  time.Time
}

// AudioRecord names the generated audio files of one item.
type AudioRecord struct {
	ItemID    int
	AudioES   string
	AudioDE   string
	CreatedAt time.Time
}

// SessionEventData captures one session lifecycle event.
type SessionEventData struct {
	SessionID string
	Target    Target
	Action    string // start, graduate, audio_error, end
	ItemID    int
	Score     int
	Detail    string
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// Session event actions.
const (
	ActionStart      = "start"
	ActionGraduate   = "graduate"
	ActionAudioError = "audio_error"
	ActionEnd        = "end"
)

// CatalogRepo reads the static reference tables.
type CatalogRepo interface {
	Genders(ctx context.Context) ([]Gender, error)
	Levels(ctx context.Context) ([]Level, error)
}

// WordRepo manages vocabulary entries.
type WordRepo interface {
	// InsertWords stores all words in one transaction and returns their ids.
	InsertWords(ctx context.Context, words []NewWord) ([]int, error)

	// FetchWords returns the words with the given ids, ordered by German text.
	FetchWords(ctx context.Context, ids []int) ([]Word, error)

	// DueWordIDs returns the ids due for the section at now.
	DueWordIDs(ctx context.Context, section Section, now time.Time) ([]int, error)
}

// SentenceRepo manages sentence entries.
type SentenceRepo interface {
	InsertSentences(ctx context.Context, sentences []NewSentence) ([]int, error)
	FetchSentences(ctx context.Context, ids []int) ([]Sentence, error)
	DueSentenceIDs(ctx context.Context, section Section, now time.Time) ([]int, error)
	Topics(ctx context.Context) ([]string, error)
}

// ReviewRepo persists scheduler state.
type ReviewRepo interface {
	// FetchReviews returns the stored state of the given items, keyed by id.
	// Items never reviewed are absent from the map.
	FetchReviews(ctx context.Context, target Target, ids []int) (map[int]ReviewRecord, error)

	// UpsertReviews writes all rows in one transaction. Either every row is
	// stored or none is.
	UpsertReviews(ctx context.Context, target Target, rows []ReviewRecord) error

	// CountDue returns how many items have never been reviewed and how many
	// reviewed items are due before cutoff.
	CountDue(ctx context.Context, target Target, cutoff time.Time) (fresh int, due int, err error)
}

// AudioRepo tracks which items have generated audio.
type AudioRepo interface {
	FetchAudio(ctx context.Context, target Target, ids []int) (map[int]AudioRecord, error)
	UpsertAudio(ctx context.Context, target Target, rows []AudioRecord) error

	// MissingAudioIDs returns up to limit item ids (> afterID) that have no
	// audio file recorded for lang ("es" or "de").
	MissingAudioIDs(ctx context.Context, target Target, lang string, afterID, limit int) ([]int, error)
}

// EventRepo provides append access to session events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	QuerySessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error)

	// RecentSessions returns the end events of finished sessions, newest
	// first. A limit of zero or less returns all of them.
	RecentSessions(ctx context.Context, limit int) ([]SessionEventRecord, error)
}
