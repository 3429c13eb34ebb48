package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/songsearch/internal/config"
	"github.com/kailas-cloud/songsearch/internal/db"
	dbRedis "github.com/kailas-cloud/songsearch/internal/db/redis"
	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/songsearch/internal/logger"
	"github.com/kailas-cloud/songsearch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/songsearch/internal/repository/catalog"
	chiTransport "github.com/kailas-cloud/songsearch/internal/transport/chi"
	"github.com/kailas-cloud/songsearch/internal/transport/slack"
	"github.com/kailas-cloud/songsearch/internal/transport/socketmode"
	detailsuc "github.com/kailas-cloud/songsearch/internal/usecase/details"
	eventuc "github.com/kailas-cloud/songsearch/internal/usecase/event"
	filtersuc "github.com/kailas-cloud/songsearch/internal/usecase/filters"
	functionuc "github.com/kailas-cloud/songsearch/internal/usecase/function"
	healthuc "github.com/kailas-cloud/songsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/songsearch/internal/usecase/search"
	"github.com/kailas-cloud/songsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting songsearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Bool("socket_mode", cfg.Slack.SocketMode),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterAppMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog is loaded once and immutable afterwards
	var store db.Store
	if cfg.Catalog.Store() {
		store, err = openStore(ctx, cfg.Catalog)
		if err != nil {
			logger.Fatal("Catalog store not available", zap.Error(err))
		}
		defer store.Close()
		logger.Info("Connected to catalog store", zap.Strings("addrs", cfg.Catalog.Addrs))
	}

	cat, err := loadCatalog(ctx, cfg.Catalog, store)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	dims, err := buildDimensions(cfg.Filters.Dimensions)
	if err != nil {
		logger.Fatal("Invalid filter dimensions", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("songs", cat.Len()),
		zap.Int("dimensions", len(dims)),
	)

	// Platform Web API client
	platform := slack.NewClient(&slack.Config{
		BaseURL:  cfg.Slack.BaseURL,
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		Timeout:  time.Duration(cfg.Slack.TimeoutSec) * time.Second,
		RetryMax: cfg.Slack.RetryMax,
		Logger:   logger,
	})

	// Use case services
	filtersSvc := filtersuc.New(cat, dims)
	searchSvc := searchuc.New(cat, dims)
	functionSvc := functionuc.New(platform, filtersSvc, searchSvc, logger)
	detailsSvc := detailsuc.New(platform, details.Placeholder{
		Title:       cfg.Details.Title,
		Description: cfg.Details.Description,
	}, time.Duration(cfg.Details.TimeoutSec)*time.Second, logger)
	events := eventuc.NewRouter(functionSvc, detailsSvc, logger)

	// Pass nil interfaces (not typed nil pointers) for checks that do not apply.
	var storePinger healthuc.StorePinger
	if store != nil {
		storePinger = store
	}
	var platformChecker healthuc.PlatformChecker
	if cfg.Slack.BotToken != "" {
		platformChecker = platform
	}
	healthSvc := healthuc.New(storePinger, platformChecker, 5*time.Second)

	// HTTP server
	server := chiTransport.NewServer(filtersSvc, searchSvc, events, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r,
		chiTransport.BearerAuthMiddleware(cfg.HTTP.APIKeys),
		chiTransport.SignatureMiddleware(cfg.Slack.SigningSecret, nil),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Slack.SocketMode {
		client := socketmode.New(platform, events, socketmode.WithLogger(logger.Named("socketmode")))
		g.Go(func() error {
			logger.Info("Starting socket mode client")
			return client.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Background details presentations started before shutdown
	events.Wait()

	logger.Info("Server stopped gracefully")
}

// openStore connects to the Valkey/Redis catalog store and waits until it answers.
func openStore(ctx context.Context, cfg config.CatalogConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Password:   cfg.Password,
		Standalone: len(cfg.Addrs) == 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Source, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// loadCatalog reads the catalog from the configured source.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, store db.Store) (*domcat.Catalog, error) {
	switch cfg.Source {
	case config.SourceFile:
		return catalogrepo.LoadFile(cfg.Path)
	case config.SourceValkey, config.SourceRedis:
		return catalogrepo.New(store, cfg.Key).Load(ctx)
	default:
		return catalogrepo.Seed()
	}
}

// buildDimensions turns configured dimension descriptors into filter dimensions.
func buildDimensions(cfgs []config.DimensionConfig) ([]filter.Dimension, error) {
	dims := make([]filter.Dimension, 0, len(cfgs))
	for _, c := range cfgs {
		d, err := filter.NewDimension(c.Name, c.DisplayName, filter.Kind(c.Type), c.Attribute)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: %w", c.Name, err)
		}
		dims = append(dims, d)
	}
	if err := filter.ValidateSet(dims); err != nil {
		return nil, err
	}
	return dims, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    chiTransport.CodeInternal,
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
