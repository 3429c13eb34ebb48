package search

import (
	"context"

	"github.com/kailas-cloud/songsearch/internal/domain/entity"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/domain/search/request"
	"github.com/kailas-cloud/songsearch/internal/domain/search/result"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

// Service filters the catalog by a selection and shapes the results.
type Service struct {
	catalog CatalogReader
	dims    []filter.Dimension
}

// New creates a search service. Predicates are applied in dimension order.
func New(catalog CatalogReader, dims []filter.Dimension) *Service {
	d := make([]filter.Dimension, len(dims))
	copy(d, dims)
	return &Service{catalog: catalog, dims: d}
}

// Dimensions returns the dimensions selections are parsed against.
func (s *Service) Dimensions() []filter.Dimension {
	d := make([]filter.Dimension, len(s.dims))
	copy(d, s.dims)
	return d
}

// Match narrows the catalog by every active selection (AND), keeping catalog order.
func (s *Service) Match(_ context.Context, sel request.Selection) []entity.Entity {
	matched := s.catalog.All()
	for _, d := range s.dims {
		v := sel.Value(d.Name())
		if !v.IsActive() {
			continue
		}
		kept := matched[:0]
		for i := range matched {
			if d.Match(&matched[i], v) {
				kept = append(kept, matched[i])
			}
		}
		matched = kept
	}
	return matched
}

// Search runs Match and projects the survivors into results.
func (s *Service) Search(ctx context.Context, sel request.Selection) []result.Result {
	results := result.Project(s.Match(ctx, sel))
	metrics.SearchResults.Observe(float64(len(results)))
	return results
}
