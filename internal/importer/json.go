package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

var idOrName = map[string]any{"type": []any{"integer", "string"}}

var wordsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"word_de", "word_es", "level"},
		"properties": map[string]any{
			"gender":     map[string]any{"type": []any{"integer", "string", "null"}},
			"word_de":    map[string]any{"type": "string", "minLength": 1},
			"word_es":    map[string]any{"type": "string", "minLength": 1},
			"plural":     map[string]any{"type": "string"},
			"level":      idOrName,
			"example_de": map[string]any{"type": "string"},
			"example_es": map[string]any{"type": "string"},
			"verb_aux":   map[string]any{"type": "string"},
			"separable":  map[string]any{"type": []any{"boolean", "null"}},
			"reflexive":  map[string]any{"type": []any{"boolean", "null"}},
		},
		"additionalProperties": false,
	},
}

var sentencesSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"sentence_es", "sentence_de", "level"},
		"properties": map[string]any{
			"sentence_es": map[string]any{"type": "string", "minLength": 1},
			"sentence_de": map[string]any{"type": "string", "minLength": 1},
			"topic":       map[string]any{"type": "string"},
			"level":       idOrName,
		},
		"additionalProperties": false,
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler expects decoded JSON values, not Go literals.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateJSON reads r fully, checks it against the named schema and returns
// the raw bytes for decoding.
func validateJSON(r io.Reader, name string, def map[string]any) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledSchema(name, def)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return raw, nil
}

// flexID holds a JSON value that may be a number or a string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("want a number or a string, got %s", b)
	}
	*f = flexID(strconv.Itoa(n))
	return nil
}

type jsonWord struct {
	Gender    flexID `json:"gender"`
	German    string `json:"word_de"`
	Spanish   string `json:"word_es"`
	Plural    string `json:"plural"`
	Level     flexID `json:"level"`
	ExampleDE string `json:"example_de"`
	ExampleES string `json:"example_es"`
	VerbAux   string `json:"verb_aux"`
	Separable *bool  `json:"separable"`
	Reflexive *bool  `json:"reflexive"`
}

type jsonSentence struct {
	Spanish string `json:"sentence_es"`
	German  string `json:"sentence_de"`
	Topic   string `json:"topic"`
	Level   flexID `json:"level"`
}

// ParseWordsJSON reads a JSON array of words.
func ParseWordsJSON(r io.Reader, cat *catalog.Catalog) ([]store.NewWord, error) {
	raw, err := validateJSON(r, "words", wordsSchema)
	if err != nil {
		return nil, err
	}
	var rows []jsonWord
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}

	words := make([]store.NewWord, 0, len(rows))
	for i, row := range rows {
		w, err := buildWord(cat, wordFields{
			Gender:    string(row.Gender),
			German:    row.German,
			Spanish:   row.Spanish,
			Plural:    row.Plural,
			Level:     string(row.Level),
			ExampleDE: row.ExampleDE,
			ExampleES: row.ExampleES,
			VerbAux:   row.VerbAux,
		})
		if err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
		w.Separable = row.Separable
		w.Reflexive = row.Reflexive
		words = append(words, w)
	}
	return words, nil
}

// ParseSentencesJSON reads a JSON array of sentences.
func ParseSentencesJSON(r io.Reader, cat *catalog.Catalog) ([]store.NewSentence, error) {
	raw, err := validateJSON(r, "sentences", sentencesSchema)
	if err != nil {
		return nil, err
	}
	var rows []jsonSentence
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode sentences: %w", err)
	}

	sentences := make([]store.NewSentence, 0, len(rows))
	for i, row := range rows {
		s, err := buildSentence(cat, row.Spanish, row.German, row.Topic, string(row.Level))
		if err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}
