// Package catalog loads the bundled guide catalog.
//
// The catalog is a YAML resource embedded in the binary. It is parsed once at
// startup and is read-only afterwards, so a *Catalog is safe for concurrent use.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/agenseek/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed guides.yaml
var bundledGuides []byte

// ErrNotFound is returned when a guide ID is not in the catalog.
var ErrNotFound = errors.New("guide not found")

type catalogFile struct {
	Guides []models.Guide `yaml:"guides"`
}

// Catalog is an immutable, ordered list of guides indexed by ID.
type Catalog struct {
	guides []models.Guide
	byID   map[string]int
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(bundledGuides)
}

// Parse builds a Catalog from YAML. Guides must have a unique, non-empty id.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Guides)
}

// New builds a Catalog from guides, validating IDs.
func New(guides []models.Guide) (*Catalog, error) {
	c := &Catalog{
		guides: make([]models.Guide, 0, len(guides)),
		byID:   make(map[string]int, len(guides)),
	}
	for i, g := range guides {
		g.ID = strings.TrimSpace(g.ID)
		if g.ID == "" {
			return nil, fmt.Errorf("guide %d: id is required", i)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("guide %q: duplicate id", g.ID)
		}
		if g.Tags == nil {
			g.Tags = []string{}
		}
		c.byID[g.ID] = len(c.guides)
		c.guides = append(c.guides, g)
	}
	return c, nil
}

// All returns a copy of the guides in catalog order.
func (c *Catalog) All() []models.Guide {
	out := make([]models.Guide, len(c.guides))
	copy(out, c.guides)
	return out
}

// Len is the number of guides.
func (c *Catalog) Len() int {
	return len(c.guides)
}

// Get looks up a guide by ID.
func (c *Catalog) Get(id string) (models.Guide, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Guide{}, ErrNotFound
	}
	return c.guides[i], nil
}

// Has reports whether id is a known guide.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Filter returns the guides matching category and difficulty. Empty values
// match everything.
func (c *Catalog) Filter(category, difficulty string) []models.Guide {
	out := []models.Guide{}
	for _, g := range c.guides {
		if category != "" && g.Category != category {
			continue
		}
		if difficulty != "" && g.Difficulty != difficulty {
			continue
		}
		out = append(out, g)
	}
	return out
}

// TotalMinutes sums the estimated reading time of all guides.
func (c *Catalog) TotalMinutes() int {
	total := 0
	for _, g := range c.guides {
		total += g.EstimatedMinutes
	}
	return total
}
