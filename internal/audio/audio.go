// Package audio locates generated pronunciation files and plays them with
// whatever command-line player the machine has.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/anki-sentences/anki-sentences/internal/session"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Languages audio is generated for.
const (
	LangES = "es"
	LangDE = "de"
)

// ErrNoPlayer is returned when none of the known players is installed.
var ErrNoPlayer = errors.New("no audio player found")

// Library maps items to files under Dir.
type Library struct {
	Dir string
}

// FileName returns the base name of the file for an item in lang.
func FileName(target store.Target, itemID int, lang string) string {
	prefix := "word"
	if target == store.TargetSentences {
		prefix = "sentence"
	}
	return fmt.Sprintf("%s_%06d_%s.mp3", prefix, itemID, lang)
}

// Path returns the full path of an item's file in lang.
func (l Library) Path(target store.Target, itemID int, lang string) string {
	return filepath.Join(l.Dir, FileName(target, itemID, lang))
}

// Lookup returns the German file of an item when it exists.
func (l Library) Lookup(target store.Target, itemID int) (string, bool, error) {
	path := l.Path(target, itemID, LangDE)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	return path, true, nil
}

// Write stores data as an item's file in lang and returns the base name.
func (l Library) Write(target store.Target, itemID int, lang string, data []byte) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	name := FileName(target, itemID, lang)
	path := filepath.Join(l.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return name, nil
}

// players in order of preference, with the flags that make them play once
// without a window or interactive controls.
var players = []struct {
	name string
	args []string
}{
	{"mpg123", []string{"-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"afplay", nil},
	{"mpv", []string{"--no-video", "--really-quiet"}},
}

// Player runs an external command and waits for it to finish.
type Player struct {
	Command string
	Args    []string
}

// FindPlayer returns the first installed player.
func FindPlayer() (*Player, error) {
	return findPlayer(exec.LookPath)
}

func findPlayer(lookPath func(string) (string, error)) (*Player, error) {
	for _, p := range players {
		path, err := lookPath(p.name)
		if err != nil {
			continue
		}
		return &Player{Command: path, Args: p.args}, nil
	}
	return nil, ErrNoPlayer
}

// Play blocks until the file has been played or ctx is done.
func (p *Player) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.Args...), path)
	cmd := exec.CommandContext(ctx, p.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if len(out) > 0 {
			return fmt.Errorf("play %s: %w: %s", filepath.Base(path), err, out)
		}
		return fmt.Errorf("play %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Source combines a Library and a Player into a session.AudioSource.
type Source struct {
	Library
	Player *Player
}

var _ session.AudioSource = (*Source)(nil)

// NewSource looks for a player and returns a source reading from dir.
func NewSource(dir string) (*Source, error) {
	p, err := FindPlayer()
	if err != nil {
		return nil, err
	}
	return &Source{Library: Library{Dir: dir}, Player: p}, nil
}

// Play plays path with the configured player.
func (s *Source) Play(ctx context.Context, path string) error {
	if s.Player == nil {
		return ErrNoPlayer
	}
	return s.Player.Play(ctx, path)
}
