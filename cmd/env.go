package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anki-sentences/anki-sentences/internal/catalog"
	"github.com/anki-sentences/anki-sentences/internal/config"
	"github.com/anki-sentences/anki-sentences/internal/store"
)

// env is what most commands need: the profile, an open store and the
// reference catalog.
type env struct {
	cfg     *config.Config
	profile config.Profile
	store   *store.Store
	catalog *catalog.Catalog
}

func (e *env) Close() error {
	return e.store.Close()
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ANKI_SENTENCES_DB, then the selected profile.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config, profile config.Profile) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	if name, _ := cmd.Flags().GetString("profile"); name == "" {
		return cfg.DatabasePath()
	}
	return profile.DatabasePath, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	profile, err := cfg.Active()
	if name, _ := cmd.Flags().GetString("profile"); name != "" {
		profile, err = cfg.Profile(name)
	}
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg, profile)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat, err := catalog.Load(cmd.Context(), st.CatalogRepo())
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{cfg: cfg, profile: profile, store: st, catalog: cat}, nil
}

func parseTarget(s string) (store.Target, error) {
	t := store.Target(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown target %q (want words or sentences)", s)
	}
	return t, nil
}
