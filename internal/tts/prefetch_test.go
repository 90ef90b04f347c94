package tts

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anki-sentences/anki-sentences/internal/audio"
	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

func intPtr(v int) *int { return &v }

func setupPrefetch(t *testing.T, provider Provider) (*Prefetcher, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	cat, err := catalog.Load(ctx, s.CatalogRepo())
	require.NoError(t, err)

	return &Prefetcher{
		Provider:  provider,
		Words:     s.WordRepo(),
		Sentences: s.SentenceRepo(),
		Audio:     s.AudioRepo(),
		Library:   audio.Library{Dir: t.TempDir()},
		Catalog:   cat,
		BatchSize: 2,
		Warn:      &bytes.Buffer{},
	}, s
}

func insertWords(t *testing.T, s *store.Store) []int {
	t.Helper()
	ids, err := s.WordRepo().InsertWords(context.Background(), []store.NewWord{
		{GenderID: intPtr(0), German: "Tisch", Spanish: "la mesa", LevelID: 0},
		{German: "gehen", Spanish: "ir", LevelID: 0},
		{GenderID: intPtr(1), German: "Lampe", Spanish: "la lámpara", LevelID: 1},
	})
	require.NoError(t, err)
	return ids
}

func TestPrefetcher_GeneratesGermanWords(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = []byte("mp3")
	p, s := setupPrefetch(t, mock)
	ids := insertWords(t, s)
	ctx := context.Background()

	res, err := p.Run(ctx, store.TargetWords, 0, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Generated: 3, Model: "mock"}, res)

	var texts []string
	for _, c := range mock.Calls {
		texts = append(texts, c.Text)
		assert.Equal(t, audio.LangDE, c.Lang)
	}
	assert.Equal(t, []string{"der Tisch", "gehen", "die Lampe"}, texts)

	recs, err := s.AudioRepo().FetchAudio(ctx, store.TargetWords, ids)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "word_000001_de.mp3", recs[ids[0]].AudioDE)
	assert.Empty(t, recs[ids[0]].AudioES)

	path, ok, err := p.Library.Lookup(store.TargetWords, ids[0])
	require.NoError(t, err)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3", string(data))

	// A second run finds nothing left to do.
	res, err = p.Run(ctx, store.TargetWords, 0, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Model: "mock"}, res)
	assert.Equal(t, 3, mock.CallCount())
}

// servedModelProvider answers with a model other than the configured one.
type servedModelProvider struct {
	configured, served string
}

func (p servedModelProvider) Synthesize(context.Context, Request) (*Audio, error) {
	return &Audio{Data: []byte("mp3"), Model: p.served}, nil
}

func (p servedModelProvider) ModelID() string { return p.configured }

func TestPrefetcher_ReportsModel(t *testing.T) {
	provider := servedModelProvider{configured: "tts-1", served: "tts-1-hd"}
	p, s := setupPrefetch(t, provider)
	ctx := context.Background()

	res, err := p.Run(ctx, store.TargetWords, 0, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, "tts-1", res.Model, "configured model when nothing was generated")

	insertWords(t, s)
	res, err = p.Run(ctx, store.TargetWords, 1, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Generated: 1, Model: "tts-1-hd"}, res)
}

func TestPrefetcher_SpanishKeepsGerman(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = []byte("mp3")
	p, s := setupPrefetch(t, mock)
	ids := insertWords(t, s)
	ctx := context.Background()

	_, err := p.Run(ctx, store.TargetWords, 1, audio.LangDE)
	require.NoError(t, err)
	_, err = p.Run(ctx, store.TargetWords, 1, audio.LangES)
	require.NoError(t, err)

	recs, err := s.AudioRepo().FetchAudio(ctx, store.TargetWords, ids[:1])
	require.NoError(t, err)
	assert.Equal(t, "word_000001_de.mp3", recs[ids[0]].AudioDE)
	assert.Equal(t, "word_000001_es.mp3", recs[ids[0]].AudioES)
	assert.Equal(t, "la mesa", mock.Calls[1].Text)
}

func TestPrefetcher_Limit(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = []byte("mp3")
	p, s := setupPrefetch(t, mock)
	insertWords(t, s)

	res, err := p.Run(context.Background(), store.TargetWords, 2, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)
	assert.Equal(t, 2, mock.CallCount())
}

func TestPrefetcher_FailuresAreSkipped(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Data: []byte("a")},
		MockResponse{Err: &ErrRejected{StatusCode: 400, Err: errors.New("bad input")}},
		MockResponse{Data: []byte("c")},
	)
	p, s := setupPrefetch(t, mock)
	ids := insertWords(t, s)
	ctx := context.Background()

	var seen []int
	p.OnItem = func(id int, err error) { seen = append(seen, id) }

	res, err := p.Run(ctx, store.TargetWords, 0, audio.LangDE)
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Generated: 2, Failed: 1, Model: "mock"}, res)
	assert.Equal(t, ids, seen)
	assert.Contains(t, p.Warn.(*bytes.Buffer).String(), "warning: audio for words 2")

	missing, err := s.AudioRepo().MissingAudioIDs(ctx, store.TargetWords, audio.LangDE, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{ids[1]}, missing)
}

func TestPrefetcher_Sentences(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = []byte("mp3")
	p, s := setupPrefetch(t, mock)
	ctx := context.Background()

	ids, err := s.SentenceRepo().InsertSentences(ctx, []store.NewSentence{
		{Spanish: "Hola, ¿qué tal?", German: "Hallo, wie geht's?", Topic: "greetings"},
	})
	require.NoError(t, err)

	res, err := p.Run(ctx, store.TargetSentences, 0, audio.LangES)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, "Hola, ¿qué tal?", mock.Calls[0].Text)

	_, err = os.Stat(filepath.Join(p.Library.Dir, audio.FileName(store.TargetSentences, ids[0], audio.LangES)))
	assert.NoError(t, err)
}

func TestPrefetcher_CancelledContext(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = []byte("mp3")
	p, s := setupPrefetch(t, mock)
	insertWords(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	p.OnItem = func(int, error) { cancel() }

	res, err := p.Run(ctx, store.TargetWords, 0, audio.LangDE)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Generated)
}

func TestPrefetcher_InvalidArgs(t *testing.T) {
	p, _ := setupPrefetch(t, NewMockProvider())

	_, err := p.Run(context.Background(), store.Target("verbs"), 0, audio.LangDE)
	assert.Error(t, err)

	_, err = p.Run(context.Background(), store.TargetWords, 0, "fr")
	assert.Error(t, err)
}
