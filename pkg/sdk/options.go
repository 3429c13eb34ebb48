package songsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	songs       []Song
	hasSongs    bool
	catalogFile string

	driver     string // "valkey" or "redis"
	addrs      []string
	password   string
	standalone bool
	key        string
	readiness  time.Duration

	dimensions []Dimension

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// sources counts the catalog sources configured.
func (c *clientConfig) sources() int {
	n := 0
	if c.hasSongs {
		n++
	}
	if c.catalogFile != "" {
		n++
	}
	if len(c.addrs) > 0 {
		n++
	}
	return n
}

// WithCatalog searches the given songs instead of the built-in seed.
func WithCatalog(songs []Song) Option {
	return optionFunc(func(c *clientConfig) {
		c.songs = songs
		c.hasSongs = true
	})
}

// WithCatalogFile loads the catalog from a YAML file (or JSON, by .json extension).
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogFile = path
	})
}

// WithValkey loads the catalog from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis loads the catalog from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithStandalone disables cluster topology discovery.
// Use for standalone Valkey/Redis instances (not managed by cluster operator).
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.standalone = true
	})
}

// WithCatalogKey sets the store key holding the catalog JSON.
// Default: "songsearch:catalog".
func WithCatalogKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.key = key
	})
}

// WithReadinessTimeout bounds the wait for the store on New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithDimensions replaces the default filter dimensions (bands, is_single).
// Order is preserved in Filters output.
func WithDimensions(dims ...Dimension) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dims
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
