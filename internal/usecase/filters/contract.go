package filters

import "github.com/kailas-cloud/songsearch/internal/domain/entity"

// CatalogReader reads the live catalog contents.
type CatalogReader interface {
	All() []entity.Entity
}
