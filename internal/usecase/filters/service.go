package filters

import (
	"context"

	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
)

// Service derives the available filters from the catalog.
type Service struct {
	catalog CatalogReader
	dims    []filter.Dimension
}

// New creates a filter registry over the given dimensions, in presentation order.
func New(catalog CatalogReader, dims []filter.Dimension) *Service {
	d := make([]filter.Dimension, len(dims))
	copy(d, dims)
	return &Service{catalog: catalog, dims: d}
}

// List returns one definition per dimension, recomputed from the catalog on every call.
func (s *Service) List(_ context.Context) []filter.Definition {
	entities := s.catalog.All()
	defs := make([]filter.Definition, len(s.dims))
	for i, d := range s.dims {
		defs[i] = d.Define(entities)
	}
	return defs
}
