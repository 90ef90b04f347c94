package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// WordsHeader is the required header row of a words CSV file.
var WordsHeader = []string{
	"gender_id", "word_de", "word_es", "plural", "level_id",
	"example_de", "example_es", "verb_aux", "separable", "reflexive",
}

// SentencesHeader is the required header row of a sentences CSV file.
var SentencesHeader = []string{"sentence_es", "sentence_de", "topic", "level_id"}

const bom = "\ufeff"

// readCSV checks the header and calls fn for every record with its line
// number.
func readCSV(r io.Reader, header []string, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return errors.New("empty file: missing header row")
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], bom)
	}
	for i, h := range header {
		if strings.TrimSpace(got[i]) != h {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got[i], h)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return &LineError{Line: perr.Line, Err: perr.Err}
			}
			return fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return &LineError{Line: line, Err: err}
		}
	}
}

// ParseWordsCSV reads a words file.
func ParseWordsCSV(r io.Reader, cat *catalog.Catalog) ([]store.NewWord, error) {
	var words []store.NewWord
	err := readCSV(r, WordsHeader, func(_ int, rec []string) error {
		w, err := buildWord(cat, wordFields{
			Gender:    rec[0],
			German:    rec[1],
			Spanish:   rec[2],
			Plural:    rec[3],
			Level:     rec[4],
			ExampleDE: rec[5],
			ExampleES: rec[6],
			VerbAux:   rec[7],
		})
		if err != nil {
			return err
		}
		w.Separable = optionalBool(rec[8])
		w.Reflexive = optionalBool(rec[9])
		words = append(words, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// ParseSentencesCSV reads a sentences file.
func ParseSentencesCSV(r io.Reader, cat *catalog.Catalog) ([]store.NewSentence, error) {
	var sentences []store.NewSentence
	err := readCSV(r, SentencesHeader, func(_ int, rec []string) error {
		s, err := buildSentence(cat, rec[0], rec[1], rec[2], rec[3])
		if err != nil {
			return err
		}
		sentences = append(sentences, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sentences, nil
}

func optionalBool(s string) *bool {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v := ParseBool(s)
	return &v
}

// wordFields holds the textual columns shared by both formats.
type wordFields struct {
	Gender    string
	German    string
	Spanish   string
	Plural    string
	Level     string
	ExampleDE string
	ExampleES string
	VerbAux   string
}

func buildWord(cat *catalog.Catalog, f wordFields) (store.NewWord, error) {
	var w store.NewWord

	w.German = strings.TrimSpace(f.German)
	if w.German == "" {
		return w, errors.New("word_de is empty")
	}
	w.Spanish = strings.TrimSpace(f.Spanish)
	if w.Spanish == "" {
		return w, errors.New("word_es is empty")
	}

	if g := strings.TrimSpace(f.Gender); g != "" {
		id, err := cat.ResolveGender(g)
		if err != nil {
			return w, err
		}
		w.GenderID = &id
	}

	level, err := cat.ResolveLevel(f.Level)
	if err != nil {
		return w, err
	}
	w.LevelID = level

	w.Plural = strings.TrimSpace(f.Plural)
	w.ExampleDE = strings.TrimSpace(f.ExampleDE)
	w.ExampleES = strings.TrimSpace(f.ExampleES)
	w.VerbAux = strings.TrimSpace(f.VerbAux)
	return w, nil
}

func buildSentence(cat *catalog.Catalog, spanish, german, topic, level string) (store.NewSentence, error) {
	s := store.NewSentence{
		Spanish: strings.TrimSpace(spanish),
		German:  strings.TrimSpace(german),
		Topic:   strings.TrimSpace(topic),
	}
	if s.Spanish == "" {
		return s, errors.New("sentence_es is empty")
	}
	if s.German == "" {
		return s, errors.New("sentence_de is empty")
	}
	id, err := cat.ResolveLevel(level)
	if err != nil {
		return s, err
	}
	s.LevelID = id
	return s, nil
}
