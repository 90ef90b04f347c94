package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		target store.Target
		id     int
		lang   string
		want   string
	}{
		{store.TargetWords, 7, LangDE, "word_000007_de.mp3"},
		{store.TargetWords, 123456, LangES, "word_123456_es.mp3"},
		{store.TargetSentences, 42, LangDE, "sentence_000042_de.mp3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.target, tt.id, tt.lang))
	}
}

func TestLibrary_Lookup(t *testing.T) {
	lib := Library{Dir: t.TempDir()}

	_, ok, err := lib.Lookup(store.TargetWords, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	name, err := lib.Write(store.TargetWords, 1, LangDE, []byte("mp3"))
	require.NoError(t, err)
	assert.Equal(t, "word_000001_de.mp3", name)

	path, ok, err := lib.Lookup(store.TargetWords, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(lib.Dir, name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3", string(data))
}

func TestLibrary_LookupIgnoresSpanish(t *testing.T) {
	lib := Library{Dir: t.TempDir()}
	_, err := lib.Write(store.TargetSentences, 3, LangES, []byte("x"))
	require.NoError(t, err)

	_, ok, err := lib.Lookup(store.TargetSentences, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLibrary_WriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio", "default")
	lib := Library{Dir: dir}
	_, err := lib.Write(store.TargetWords, 9, LangES, []byte("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "word_000009_es.mp3"))
	assert.NoError(t, err)
}

func TestFindPlayer_Preference(t *testing.T) {
	installed := map[string]bool{"mpv": true, "ffplay": true}
	lookPath := func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	p, err := findPlayer(lookPath)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ffplay", p.Command)
	assert.Contains(t, p.Args, "-autoexit")
}

func TestFindPlayer_None(t *testing.T) {
	_, err := findPlayer(func(string) (string, error) { return "", errors.New("not found") })
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestPlayer_Play(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX true/false")
	}
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not installed")
	}
	p := &Player{Command: truePath}
	assert.NoError(t, p.Play(context.Background(), "word_000001_de.mp3"))

	falsePath, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not installed")
	}
	p = &Player{Command: falsePath}
	assert.Error(t, p.Play(context.Background(), "word_000001_de.mp3"))
}

func TestSource_NoPlayer(t *testing.T) {
	s := &Source{Library: Library{Dir: t.TempDir()}}
	assert.ErrorIs(t, s.Play(context.Background(), "x.mp3"), ErrNoPlayer)
}
