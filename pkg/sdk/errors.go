package songsearch

import "github.com/kailas-cloud/songsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidEntity   = domain.ErrInvalidEntity
	ErrInvalidCatalog  = domain.ErrInvalidCatalog
	ErrCatalogNotFound = domain.ErrCatalogNotFound
	ErrInvalidFilter   = domain.ErrInvalidFilter
)
