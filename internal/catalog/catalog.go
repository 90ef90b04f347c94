// Package catalog holds the static reference data (grammatical genders and
// proficiency levels) loaded once at startup and passed to whoever needs it.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

// Catalog is a read-only view of the reference tables.
type Catalog struct {
	genders map[int]store.Gender
	levels  []store.Level
}

// New builds a catalog from explicit rows.
func New(genders []store.Gender, levels []store.Level) *Catalog {
	c := &Catalog{
		genders: make(map[int]store.Gender, len(genders)),
		levels:  append([]store.Level(nil), levels...),
	}
	for _, g := range genders {
		c.genders[g.ID] = g
	}
	return c
}

// Load reads the reference tables from the repository.
func Load(ctx context.Context, repo store.CatalogRepo) (*Catalog, error) {
	genders, err := repo.Genders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load genders: %w", err)
	}
	levels, err := repo.Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	return New(genders, levels), nil
}

// Article returns the definite article for a gender id.
func (c *Catalog) Article(genderID int) (string, bool) {
	if c == nil {
		return "", false
	}
	g, ok := c.genders[genderID]
	if !ok {
		return "", false
	}
	return g.Article, true
}

// HasGender reports whether id names a known gender.
func (c *Catalog) HasGender(id int) bool {
	_, ok := c.genders[id]
	return ok
}

// Levels returns the levels ordered by id.
func (c *Catalog) Levels() []store.Level {
	return append([]store.Level(nil), c.levels...)
}

// LevelCode returns the code (e.g. "B1") for a level id.
func (c *Catalog) LevelCode(id int) (string, bool) {
	for _, l := range c.levels {
		if l.ID == id {
			return l.Code, true
		}
	}
	return "", false
}

// ResolveLevel accepts either a level id ("2") or a code ("b1", "B1").
func (c *Catalog) ResolveLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if _, ok := c.LevelCode(id); ok {
			return id, nil
		}
		return 0, fmt.Errorf("unknown level id %d", id)
	}
	for _, l := range c.levels {
		if strings.EqualFold(l.Code, s) {
			return l.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// ResolveGender accepts either a gender id ("1") or its name ("feminine").
func (c *Catalog) ResolveGender(s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if c.HasGender(id) {
			return id, nil
		}
		return 0, fmt.Errorf("unknown gender id %d", id)
	}
	for _, g := range c.genders {
		if strings.EqualFold(g.Name, s) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}
