// Package config manages the profile file. Each profile points at its own
// database and audio directory; one profile is active at a time.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the profile file inside the config directory.
const FileName = "Config.toml"

// DefaultProfile is created when no profile file exists yet.
const DefaultProfile = "Default"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// Profile holds the settings of one learner profile.
type Profile struct {
	Name         string `toml:"name"`
	DatabasePath string `toml:"database_path"`
	AudioEnabled bool   `toml:"audio_enabled"`
	AudioDir     string `toml:"audio_dir"`
}

// Config is the contents of the profile file.
type Config struct {
	Profiles      map[string]Profile `toml:"profiles"`
	ActualProfile string             `toml:"actual_profile"`

	path string
}

// DefaultPath resolves the profile file path in priority order:
// 1. ANKI_SENTENCES_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/anki-sentences/Config.toml
// 3. ~/.config/anki-sentences/Config.toml
func DefaultPath() (string, error) {
	if p := os.Getenv("ANKI_SENTENCES_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "anki-sentences", FileName), nil
}

// New returns a config holding only the default profile, stored at path.
func New(path string) *Config {
	c := &Config{
		Profiles: map[string]Profile{},
		path:     path,
	}
	p := c.newProfile(DefaultProfile)
	c.Profiles[p.Name] = p
	c.ActualProfile = p.Name
	return c
}

// Load reads the profile file at path. A missing file is created with the
// default profile.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := New(path)
		if err := c.Save(); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.path = path
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	if _, err := c.Active(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Path returns the file the config is saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Active returns the profile currently in use.
func (c *Config) Active() (Profile, error) {
	return c.Profile(c.ActualProfile)
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (try \"anki-sentences profile use <name>\")", ErrProfileNotFound, name)
	}
	return p, nil
}

// Names returns the profile names, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UseProfile makes name the active profile and saves the file.
func (c *Config) UseProfile(name string) error {
	if _, err := c.Profile(name); err != nil {
		return err
	}
	c.ActualProfile = name
	return c.Save()
}

// NewProfile creates a profile with default paths, makes it active and saves
// the file.
func (c *Config) NewProfile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, errors.New("profile name must not be empty")
	}
	if _, ok := c.Profiles[name]; ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileExists, name)
	}
	p := c.newProfile(name)
	c.Profiles[name] = p
	c.ActualProfile = name
	if err := c.Save(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SetAudioEnabled toggles audio for the active profile and saves the file.
func (c *Config) SetAudioEnabled(enabled bool) error {
	p, err := c.Active()
	if err != nil {
		return err
	}
	p.AudioEnabled = enabled
	c.Profiles[p.Name] = p
	return c.Save()
}

// DatabasePath returns the database of the active profile. The
// ANKI_SENTENCES_DB environment variable takes precedence.
func (c *Config) DatabasePath() (string, error) {
	if p := os.Getenv("ANKI_SENTENCES_DB"); p != "" {
		return p, nil
	}
	p, err := c.Active()
	if err != nil {
		return "", err
	}
	return p.DatabasePath, nil
}

// newProfile lays out a profile's files next to the config file.
func (c *Config) newProfile(name string) Profile {
	dir := filepath.Dir(c.path)
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return Profile{
		Name:         name,
		DatabasePath: filepath.Join(dir, "db", slug+".db"),
		AudioEnabled: true,
		AudioDir:     filepath.Join(dir, "audio", slug),
	}
}
