package songsearch

import (
	"fmt"

	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/domain/search/result"
)

func toDomainDimensions(dims []Dimension) ([]filter.Dimension, error) {
	out := make([]filter.Dimension, 0, len(dims))
	for _, d := range dims {
		dim, err := filter.NewDimension(d.Name, d.DisplayName, filter.Kind(d.Kind), d.Attribute)
		if err != nil {
			return nil, fmt.Errorf("songsearch: dimension %q: %w", d.Name, err)
		}
		out = append(out, dim)
	}
	if err := filter.ValidateSet(out); err != nil {
		return nil, fmt.Errorf("songsearch: %w", err)
	}
	return out, nil
}

func toDomainCatalog(songs []Song) (*domcat.Catalog, error) {
	entities := make([]entity.Entity, 0, len(songs))
	for _, s := range songs {
		e, err := entity.New(entity.Fields{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Link:        s.Link,
			Band:        s.Band,
			IsSingle:    s.IsSingle,
			DateUpdated: s.DateUpdated,
			Content:     s.Content,
		})
		if err != nil {
			return nil, fmt.Errorf("songsearch: %w", err)
		}
		entities = append(entities, e)
	}
	c, err := domcat.New(entities)
	if err != nil {
		return nil, fmt.Errorf("songsearch: %w", err)
	}
	return c, nil
}

func filterFromDomain(d *filter.Definition) Filter {
	f := Filter{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Kind:        FilterKind(d.Kind),
	}
	if d.Kind == filter.MultiSelect {
		f.Options = make([]FilterOption, len(d.Options))
		for i, o := range d.Options {
			f.Options[i] = FilterOption{Name: o.Name, Value: o.Value}
		}
	}
	return f
}

func resultFromDomain(r *result.Result) Result {
	return Result{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Link:          r.Link,
		DateUpdated:   r.DateUpdated,
		ExternalRefID: r.ExternalRef.ID,
		Content:       r.Content,
	}
}
