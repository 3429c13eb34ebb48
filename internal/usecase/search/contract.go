package search

import "github.com/kailas-cloud/songsearch/internal/domain/entity"

// CatalogReader reads the catalog in its iteration order.
type CatalogReader interface {
	All() []entity.Entity
}
