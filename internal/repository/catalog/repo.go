package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/songsearch/internal/db"
	"github.com/kailas-cloud/songsearch/internal/domain"
	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
)

// DefaultKey is the store key holding the catalog JSON.
const DefaultKey = "songsearch:catalog"

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo reads and writes the catalog as a single JSON value in a key-value store.
type Repo struct {
	store store
	key   string
}

// New creates a catalog repository. An empty key falls back to DefaultKey.
func New(s store, key string) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{store: s, key: key}
}

// Key returns the store key in use.
func (r *Repo) Key() string { return r.key }

// Load reads and validates the stored catalog.
func (r *Repo) Load(ctx context.Context) (*domcat.Catalog, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s", domain.ErrCatalogNotFound, r.key)
		}
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	c, err := ParseJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return c, nil
}

// Save overwrites the stored catalog.
func (r *Repo) Save(ctx context.Context, c *domcat.Catalog) error {
	data, err := EncodeJSON(c)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}
