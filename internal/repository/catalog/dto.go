package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/songsearch/internal/domain"
	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
)

// record is the on-disk and in-store shape of one entity.
type record struct {
	ID          string  `yaml:"id" json:"id"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	Link        string  `yaml:"link" json:"link"`
	Band        string  `yaml:"band" json:"band"`
	IsSingle    bool    `yaml:"is_single" json:"is_single"`
	DateUpdated string  `yaml:"date_updated" json:"date_updated"`
	Content     *string `yaml:"content,omitempty" json:"content,omitempty"`
}

func (r *record) fields() entity.Fields {
	return entity.Fields{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
		Band:        r.Band,
		IsSingle:    r.IsSingle,
		DateUpdated: r.DateUpdated,
		Content:     r.Content,
	}
}

func recordFrom(e *entity.Entity) record {
	f := e.Fields()
	return record{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Link:        f.Link,
		Band:        f.Band,
		IsSingle:    f.IsSingle,
		DateUpdated: f.DateUpdated,
		Content:     f.Content,
	}
}

// ParseYAML builds a validated catalog from a YAML list of entities.
func ParseYAML(data []byte) (*domcat.Catalog, error) {
	var recs []record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", domain.ErrInvalidCatalog, err)
	}
	return build(recs)
}

// ParseJSON builds a validated catalog from a JSON array of entities.
func ParseJSON(data []byte) (*domcat.Catalog, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: parse json: %w", domain.ErrInvalidCatalog, err)
	}
	return build(recs)
}

// EncodeJSON serializes a catalog as a JSON array in catalog order.
func EncodeJSON(c *domcat.Catalog) ([]byte, error) {
	entities := c.All()
	recs := make([]record, len(entities))
	for i := range entities {
		recs[i] = recordFrom(&entities[i])
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}

func build(recs []record) (*domcat.Catalog, error) {
	entities := make([]entity.Entity, 0, len(recs))
	for i := range recs {
		e, err := entity.New(recs[i].fields())
		if err != nil {
			return nil, fmt.Errorf("entity #%d: %w", i, err)
		}
		entities = append(entities, e)
	}
	return domcat.New(entities)
}
