package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anki-sentences", FileName)

	c, err := Load(path)
	require.NoError(t, err)

	p, err := c.Active()
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, p.Name)
	assert.True(t, p.AudioEnabled)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "db", "default.db"), p.DatabasePath)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "audio", "default"), p.AudioDir)

	_, err = os.Stat(path)
	assert.NoError(t, err, "config file should be written")
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	c := New(path)
	_, err := c.NewProfile("Maria Lopez")
	require.NoError(t, err)
	require.NoError(t, c.SetAudioEnabled(false))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", loaded.ActualProfile)
	assert.Equal(t, []string{"Default", "Maria Lopez"}, loaded.Names())

	p, err := loaded.Active()
	require.NoError(t, err)
	assert.False(t, p.AudioEnabled)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "db", "maria_lopez.db"), p.DatabasePath)
}

func TestLoad_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `actual_profile = "work"

[profiles.work]
name = "work"
database_path = "/data/work.db"
audio_enabled = false
audio_dir = "/data/audio"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	p, err := c.Active()
	require.NoError(t, err)
	assert.Equal(t, Profile{Name: "work", DatabasePath: "/data/work.db", AudioDir: "/data/audio"}, p)
}

func TestLoad_UnknownActiveProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`actual_profile = "ghost"`), 0o644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`actual_profile = `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestUseProfile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), FileName))
	_, err := c.NewProfile("second")
	require.NoError(t, err)

	require.NoError(t, c.UseProfile(DefaultProfile))
	assert.Equal(t, DefaultProfile, c.ActualProfile)

	err = c.UseProfile("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, DefaultProfile, c.ActualProfile)
}

func TestNewProfile_Rejects(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), FileName))

	_, err := c.NewProfile(DefaultProfile)
	assert.ErrorIs(t, err, ErrProfileExists)

	_, err = c.NewProfile("   ")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("ANKI_SENTENCES_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "anki-sentences", FileName), p)

	t.Setenv("ANKI_SENTENCES_CONFIG", "/custom/cfg.toml")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/cfg.toml", p)
}

func TestDatabasePath_EnvOverride(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), FileName))

	t.Setenv("ANKI_SENTENCES_DB", "")
	p, err := c.DatabasePath()
	require.NoError(t, err)
	assert.Contains(t, p, "default.db")

	t.Setenv("ANKI_SENTENCES_DB", "/tmp/override.db")
	p, err = c.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", p)
}
