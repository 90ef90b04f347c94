package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anki-sentences/anki-sentences/internal/answer"
	"github.com/anki-sentences/anki-sentences/internal/audio"
	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// DefaultPrefetchBatch is how many ids are selected per query.
const DefaultPrefetchBatch = 50

// Prefetcher generates audio files for items that have none yet.
type Prefetcher struct {
	Provider  Provider
	Words     store.WordRepo
	Sentences store.SentenceRepo
	Audio     store.AudioRepo
	Library   audio.Library
	Catalog   *catalog.Catalog

	// Timeout bounds one item, retries included. Zero means no bound.
	Timeout   time.Duration
	BatchSize int

	// Warn receives per-item failures. Defaults to stderr.
	Warn io.Writer

	// OnItem, when set, is called after every item that was attempted.
	OnItem func(itemID int, err error)
}

// PrefetchResult counts what a run did.
type PrefetchResult struct {
	Generated int
	Failed    int

	// Model is the model that produced the files, or the configured one when
	// nothing was generated.
	Model string
}

// Run generates up to limit files in lang for target. A limit of zero or
// less processes every missing item. Items that fail are reported and
// skipped; the run stops early only when ctx is done or storage fails.
func (p *Prefetcher) Run(ctx context.Context, target store.Target, limit int, lang string) (PrefetchResult, error) {
	res := PrefetchResult{Model: p.Provider.ModelID()}
	if !target.Valid() {
		return res, fmt.Errorf("unknown target %q", target)
	}
	if lang != audio.LangES && lang != audio.LangDE {
		return res, fmt.Errorf("unknown audio language %q", lang)
	}

	batch := p.BatchSize
	if batch <= 0 {
		batch = DefaultPrefetchBatch
	}

	afterID := 0
	processed := 0
	for limit <= 0 || processed < limit {
		n := batch
		if limit > 0 {
			n = min(n, limit-processed)
		}
		ids, err := p.Audio.MissingAudioIDs(ctx, target, lang, afterID, n)
		if err != nil {
			return res, fmt.Errorf("select items without audio: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		texts, err := p.texts(ctx, target, ids, lang)
		if err != nil {
			return res, err
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			afterID = id
			processed++

			text, ok := texts[id]
			if !ok || text == "" {
				continue
			}

			model, err := p.generate(ctx, target, id, lang, text)
			if p.OnItem != nil {
				p.OnItem(id, err)
			}
			if err == nil {
				res.Generated++
				if model != "" {
					res.Model = model
				}
				continue
			}
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return res, ctx.Err()
			}
			var storeErr *storageError
			if errors.As(err, &storeErr) {
				return res, storeErr.err
			}
			res.Failed++
			fmt.Fprintf(p.warn(), "warning: audio for %s %d: %v\n", target, id, err)
		}
	}

	return res, nil
}

// storageError marks failures that should abort the run.
type storageError struct {
	err error
}

func (e *storageError) Error() string { return e.err.Error() }

func (p *Prefetcher) generate(ctx context.Context, target store.Target, id int, lang, text string) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	out, err := p.Provider.Synthesize(ctx, Request{Text: text, Lang: lang})
	if err != nil {
		return "", err
	}

	name, err := p.Library.Write(target, id, lang, out.Data)
	if err != nil {
		return "", &storageError{err: err}
	}

	rec := store.AudioRecord{ItemID: id}
	if lang == audio.LangES {
		rec.AudioES = name
	} else {
		rec.AudioDE = name
	}
	if err := p.Audio.UpsertAudio(ctx, target, []store.AudioRecord{rec}); err != nil {
		return "", &storageError{err: fmt.Errorf("record audio: %w", err)}
	}
	return out.Model, nil
}

// texts returns what to speak for each id.
func (p *Prefetcher) texts(ctx context.Context, target store.Target, ids []int, lang string) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	switch target {
	case store.TargetWords:
		words, err := p.Words.FetchWords(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch words: %w", err)
		}
		for _, w := range words {
			if lang == audio.LangES {
				out[w.ID] = w.Spanish
			} else {
				out[w.ID] = answer.Word(p.Catalog, w)
			}
		}
	case store.TargetSentences:
		sentences, err := p.Sentences.FetchSentences(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch sentences: %w", err)
		}
		for _, s := range sentences {
			if lang == audio.LangES {
				out[s.ID] = s.Spanish
			} else {
				out[s.ID] = s.German
			}
		}
	}
	return out, nil
}

func (p *Prefetcher) warn() io.Writer {
	if p.Warn != nil {
		return p.Warn
	}
	return os.Stderr
}
