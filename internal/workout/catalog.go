// Package workout converts between authored exercises and the platform's flat,
// round-robin set records. Everything here is pure: no I/O, no shared state.
package workout

import (
	"strings"

	"github.com/claude/tonalmcp/internal/models"
)

// Catalog indexes a movement list by name and by id. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	byName map[string]models.Movement
	byID   map[string]models.Movement
}

// NewCatalog builds a Catalog. Later entries replace earlier ones that share
// a case-insensitive name or an id.
func NewCatalog(movements []models.Movement) *Catalog {
	c := &Catalog{
		byName: make(map[string]models.Movement, len(movements)),
		byID:   make(map[string]models.Movement, len(movements)),
	}
	for _, m := range movements {
		c.byName[strings.ToLower(m.Name)] = m
		c.byID[m.ID] = m
	}
	return c
}

// Resolve finds the movement whose name matches exactly, ignoring case.
func (c *Catalog) Resolve(name string) (models.Movement, error) {
	if c != nil {
		if m, ok := c.byName[strings.ToLower(name)]; ok {
			return m, nil
		}
	}
	return models.Movement{}, ErrMovementNotFound
}

// Name returns the display name for a movement id, or the id itself when the
// catalog does not know it.
func (c *Catalog) Name(id string) string {
	if c != nil {
		if m, ok := c.byID[id]; ok {
			return m.Name
		}
	}
	return id
}

// Len reports the number of distinct movement ids.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}
