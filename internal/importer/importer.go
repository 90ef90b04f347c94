// Package importer reads vocabulary and sentence files and stores them.
//
// Two formats are accepted. CSV files must carry the exact header row of
// their target; JSON files hold an array of objects and are validated
// against a schema before anything is decoded. Either way a file is stored
// in one transaction, so a bad row leaves the database untouched.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Format is an input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. An empty name is inferred from the
// file extension of path.
func ParseFormat(name, path string) (Format, error) {
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch Format(strings.ToLower(name)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown import format %q (want csv or json)", name)
}

// LineError reports a problem with one record of an input file. Line is
// 1-based and counts the CSV header; for JSON it is the array index plus one.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ErrEmpty is returned when a file has a valid header or array but no rows.
var ErrEmpty = errors.New("no rows to import")

// Importer parses files and stores their rows.
type Importer struct {
	Words     store.WordRepo
	Sentences store.SentenceRepo
	Catalog   *catalog.Catalog
}

// ImportFile reads path and stores its rows for target. It returns the ids
// of the new items in file order.
func (im *Importer) ImportFile(ctx context.Context, target store.Target, path string, format Format) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	switch target {
	case store.TargetWords:
		return im.ImportWords(ctx, f, format)
	case store.TargetSentences:
		return im.ImportSentences(ctx, f, format)
	}
	return nil, fmt.Errorf("unknown target %q", target)
}

// ImportWords parses r and stores the words.
func (im *Importer) ImportWords(ctx context.Context, r io.Reader, format Format) ([]int, error) {
	var (
		words []store.NewWord
		err   error
	)
	switch format {
	case FormatCSV:
		words, err = ParseWordsCSV(r, im.Catalog)
	case FormatJSON:
		words, err = ParseWordsJSON(r, im.Catalog)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}

	ids, err := im.Words.InsertWords(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("store words: %w", err)
	}
	return ids, nil
}

// ImportSentences parses r and stores the sentences.
func (im *Importer) ImportSentences(ctx context.Context, r io.Reader, format Format) ([]int, error) {
	var (
		sentences []store.NewSentence
		err       error
	)
	switch format {
	case FormatCSV:
		sentences, err = ParseSentencesCSV(r, im.Catalog)
	case FormatJSON:
		sentences, err = ParseSentencesJSON(r, im.Catalog)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, ErrEmpty
	}

	ids, err := im.Sentences.InsertSentences(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("store sentences: %w", err)
	}
	return ids, nil
}

// ParseBool reads the yes/no columns. Anything other than si, sí, yes, 1 or
// true (in any case) is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "yes", "1", "true":
		return true
	}
	return false
}
