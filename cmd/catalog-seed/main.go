// Command catalog-seed writes a song catalog into the Valkey/Redis key the
// songsearch server reads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/config"
	dbRedis "github.com/kailas-cloud/songsearch/internal/db/redis"
	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/songsearch/internal/logger"
	catalogrepo "github.com/kailas-cloud/songsearch/internal/repository/catalog"
)

func main() {
	file := flag.String("file", "", "catalog file to seed (YAML or .json); the built-in catalog when empty")
	key := flag.String("key", "", "store key; catalog.key from config when empty")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg.Catalog, *file, *key, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.CatalogConfig, file, key string, logger *zap.Logger) error {
	if !cfg.Store() {
		return fmt.Errorf("catalog.source must be valkey or redis, got %q", cfg.Source)
	}
	if key == "" {
		key = cfg.Key
	}

	var (
		cat *domcat.Catalog
		err error
	)
	if file != "" {
		cat, err = catalogrepo.LoadFile(file)
	} else {
		cat, err = catalogrepo.Seed()
	}
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Password:   cfg.Password,
		Standalone: len(cfg.Addrs) == 1,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		return err
	}

	repo := catalogrepo.New(store, key)
	if err := repo.Save(ctx, cat); err != nil {
		return err
	}

	logger.Info("Catalog seeded",
		zap.String("key", repo.Key()),
		zap.Int("songs", cat.Len()),
		zap.Strings("addrs", cfg.Addrs),
	)
	return nil
}
