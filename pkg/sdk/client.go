package songsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/songsearch/internal/db"
	dbRedis "github.com/kailas-cloud/songsearch/internal/db/redis"
	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/domain/search/request"
	"github.com/kailas-cloud/songsearch/internal/domain/search/result"
	catalogrepo "github.com/kailas-cloud/songsearch/internal/repository/catalog"
	filtersuc "github.com/kailas-cloud/songsearch/internal/usecase/filters"
	healthuc "github.com/kailas-cloud/songsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/songsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Operation names used in metrics and logs.
const (
	opFilters = "filters"
	opSearch  = "search"
)

// Internal interfaces for substitution in tests.
type filtersUseCase interface {
	List(ctx context.Context) []filter.Definition
}

type searchUseCase interface {
	Dimensions() []filter.Dimension
	Search(ctx context.Context, sel request.Selection) []result.Result
}

// Client is the songsearch entry point. It is safe for concurrent use.
type Client struct {
	store      db.Store
	size       int
	filtersSvc filtersUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client over one catalog source: WithCatalog, WithCatalogFile,
// WithValkey/WithRedis, or the built-in seed when none is given.
// The provided context bounds the initial store readiness check and catalog load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readiness: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.sources() > 1 {
		return nil, errors.New(
			"songsearch: WithCatalog, WithCatalogFile and WithValkey/WithRedis are mutually exclusive",
		)
	}

	dims := filter.DefaultDimensions()
	if cfg.dimensions != nil {
		var err error
		if dims, err = toDomainDimensions(cfg.dimensions); err != nil {
			return nil, err
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	if len(cfg.addrs) == 0 {
		cat, err := localCatalog(cfg)
		if err != nil {
			return nil, err
		}
		return wireClient(cat, nil, dims, obs), nil
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	return connect(ctx, store, cfg, dims, obs)
}

// connect waits for the store and loads the catalog from it.
// The store is closed on failure.
func connect(
	ctx context.Context, store db.Store, cfg *clientConfig, dims []filter.Dimension, obs *observer,
) (*Client, error) {
	if err := store.WaitForReady(ctx, cfg.readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("songsearch: database not ready: %w", err)
	}

	cat, err := catalogrepo.New(store, cfg.key).Load(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("songsearch: load catalog: %w", err)
	}

	return wireClient(cat, store, dims, obs), nil
}

func localCatalog(cfg *clientConfig) (*domcat.Catalog, error) {
	switch {
	case cfg.hasSongs:
		return toDomainCatalog(cfg.songs)
	case cfg.catalogFile != "":
		c, err := catalogrepo.LoadFile(cfg.catalogFile)
		if err != nil {
			return nil, fmt.Errorf("songsearch: %w", err)
		}
		return c, nil
	default:
		c, err := catalogrepo.Seed()
		if err != nil {
			return nil, fmt.Errorf("songsearch: %w", err)
		}
		return c, nil
	}
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("songsearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("songsearch: unknown driver %q", cfg.driver)
	}
}

// wireClient builds the services over a loaded catalog. store may be nil.
func wireClient(cat *domcat.Catalog, store db.Store, dims []filter.Dimension, obs *observer) *Client {
	var pinger healthuc.StorePinger
	if store != nil {
		pinger = store
	}
	return &Client{
		store:      store,
		size:       cat.Len(),
		filtersSvc: filtersuc.New(cat, dims),
		searchSvc:  searchuc.New(cat, dims),
		healthSvc:  healthuc.New(pinger, nil, defaultReadinessTimeout),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Len returns the number of songs in the catalog.
func (c *Client) Len() int { return c.size }

// Filters lists the filter dimensions with their options derived from the catalog.
func (c *Client) Filters(ctx context.Context) (filters []Filter, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opFilters, start, len(filters), err) }()

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}

	defs := c.filtersSvc.List(ctx)
	filters = make([]Filter, len(defs))
	for i := range defs {
		filters[i] = filterFromDomain(&defs[i])
	}
	return filters, nil
}

// Search returns the songs matching every active dimension of sel, in catalog order.
// An empty selection returns the whole catalog.
func (c *Client) Search(ctx context.Context, sel Selection) (results []Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, len(results), err) }()

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	parsed := request.Parse(sel, c.searchSvc.Dimensions())
	hits := c.searchSvc.Search(ctx, parsed)
	results = make([]Result, len(hits))
	for i := range hits {
		results[i] = resultFromDomain(&hits[i])
	}
	return results, nil
}
