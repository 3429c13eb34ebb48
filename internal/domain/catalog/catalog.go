package catalog

import (
	"fmt"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
)

// Catalog is the ordered, read-only collection of searchable entities.
// It is safe for concurrent readers once constructed.
type Catalog struct {
	entities []entity.Entity
	byID     map[string]int
}

// New creates a Catalog preserving the given order. Entity ids must be unique.
func New(entities []entity.Entity) (*Catalog, error) {
	c := &Catalog{
		entities: make([]entity.Entity, len(entities)),
		byID:     make(map[string]int, len(entities)),
	}
	copy(c.entities, entities)
	for i := range c.entities {
		id := c.entities[i].ID()
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate entity id %q", domain.ErrInvalidCatalog, id)
		}
		c.byID[id] = i
	}
	return c, nil
}

// All returns the entities in catalog order. The slice is a copy.
func (c *Catalog) All() []entity.Entity {
	out := make([]entity.Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

// Len returns the number of entities.
func (c *Catalog) Len() int { return len(c.entities) }

// Get returns an entity by id.
func (c *Catalog) Get(id string) (entity.Entity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.Entity{}, false
	}
	return c.entities[i], true
}
