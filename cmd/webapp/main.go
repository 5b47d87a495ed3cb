// Command webapp serves a loaded index over HTTP: boolean and phrase
// search, query caching through Redis, analytics events through Kafka, and
// Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/irsearch/platform/internal/analytics"
	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/internal/webapp"
	"github.com/irsearch/platform/internal/webapp/cache"
	"github.com/irsearch/platform/internal/webapp/query"
	"github.com/irsearch/platform/pkg/config"
	"github.com/irsearch/platform/pkg/logger"
	"github.com/irsearch/platform/pkg/metrics"
	"github.com/irsearch/platform/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	indexDir := flag.String("index", "", "index directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *indexDir != "" {
		cfg.Index.Dir = *indexDir
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search web app", "port", cfg.Server.Port, "index_dir", cfg.Index.Dir)

	ix, err := index.Load(cfg.Index.Dir)
	if err != nil {
		slog.Error("loading index failed", "dir", cfg.Index.Dir, "error", err)
		os.Exit(1)
	}
	engine := query.NewEngine(ix, cfg.Search.MaxResults)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queryCache, err := cache.Connect(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
		queryCache = nil
	} else {
		defer queryCache.Close()
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	writer := analytics.NewEventWriter(cfg.Kafka)
	defer writer.Close()
	collector := analytics.NewCollector(writer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := analytics.NewAggregator()
	reader := analytics.NewEventReader(cfg.Kafka, aggregator)
	go func() {
		if err := reader.Run(ctx); err != nil {
			slog.Error("analytics reader error", "error", err)
		}
	}()
	slog.Info("analytics pipeline started", "topic", cfg.Kafka.Topics.AnalyticsEvents)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	h := webapp.New(engine, queryCache, collector, m, cfg.Search.DefaultLimit)
	analyticsH := analytics.NewHandler(aggregator)
	ready := webapp.NewReadiness(ix, queryCache)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/phrase", h.Phrase)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/analytics", analyticsH.Stats)
	mux.HandleFunc("GET /health/live", ready.Live)
	mux.HandleFunc("GET /health/ready", ready.Ready)
	if m != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Observe(m)(chain)
	}
	chain = middleware.RateLimit(limiter)(chain)
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("web app listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("web app stopped")
}
