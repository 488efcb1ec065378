package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/config"
	dbRedis "github.com/ndc-analytics/ndcsearch/internal/db/redis"
	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/feed"
	logpkg "github.com/ndc-analytics/ndcsearch/internal/logger"
	"github.com/ndc-analytics/ndcsearch/internal/metrics"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
	catalogrepo "github.com/ndc-analytics/ndcsearch/internal/repository/catalog"
	"github.com/ndc-analytics/ndcsearch/internal/repository/embcache"
	passagerepo "github.com/ndc-analytics/ndcsearch/internal/repository/passage"
	"github.com/ndc-analytics/ndcsearch/internal/session"
	chiTransport "github.com/ndc-analytics/ndcsearch/internal/transport/chi"
	openaiGen "github.com/ndc-analytics/ndcsearch/internal/transport/openai"
	cataloguc "github.com/ndc-analytics/ndcsearch/internal/usecase/catalog"
	chatuc "github.com/ndc-analytics/ndcsearch/internal/usecase/chat"
	healthuc "github.com/ndc-analytics/ndcsearch/internal/usecase/health"
	paneluc "github.com/ndc-analytics/ndcsearch/internal/usecase/panel"
	raguc "github.com/ndc-analytics/ndcsearch/internal/usecase/rag"
	searchuc "github.com/ndc-analytics/ndcsearch/internal/usecase/search"
	"github.com/ndc-analytics/ndcsearch/internal/version"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

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

	logger.Info("Starting ndcsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register GenAI metrics explicitly (no init())
	metrics.RegisterGenAIMetrics()

	// Reference data is embedded; failure to parse it is a build defect.
	areas := refdata.MustLoadAreas()
	countries := refdata.MustLoadCountries()
	prompts := refdata.MustLoadPrompts()

	// Passage repository over the FT index. The index schema is created on
	// startup; ingestion pipelines populate the hashes out of band.
	passages := passagerepo.New(store, cfg.GenAI.Dimensions)
	if err := passages.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// Embedder chain: OpenAI -> cached
	baseEmbedder := openaiGen.NewEmbedder(&openaiGen.Config{
		APIKey:        cfg.GenAI.APIKey,
		BaseURL:       cfg.GenAI.BaseURL,
		AzureEndpoint: cfg.GenAI.AzureEndpoint,
		Model:         cfg.GenAI.EmbeddingModel,
		Dimensions:    cfg.GenAI.Dimensions,
		Provider:      "openai",
		Logger:        logger,
	})
	embedder := embcache.New(
		baseEmbedder, store,
		time.Duration(cfg.GenAI.EmbCacheTTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.GenAI.EmbeddingModel),
		zap.Int("dimensions", cfg.GenAI.Dimensions),
	)

	completer := openaiGen.NewCompleter(&openaiGen.Config{
		APIKey:        cfg.GenAI.APIKey,
		BaseURL:       cfg.GenAI.BaseURL,
		AzureEndpoint: cfg.GenAI.AzureEndpoint,
		Model:         cfg.GenAI.ChatModel,
		Provider:      "openai",
		Logger:        logger,
	})

	// Use case services
	searchSvc := searchuc.New(passages, embedder, areas, cfg.Search.Limit, logger)
	catalogSvc := cataloguc.New(
		catalogrepo.New(passages),
		time.Duration(cfg.Search.CatalogTTLMin)*time.Minute,
		logger,
	)
	panelSvc := paneluc.New(searchSvc, catalogSvc, countries.All(), logger)
	ragSvc := raguc.New(completer, embedder, passages, prompts, cfg.Search.RAGLimit, logger)
	chatSvc := chatuc.New(completer, ragSvc, prompts, logger)
	healthSvc := healthuc.New(store, newGenAIHealthChecker(embedder))

	sessions := session.NewStore(time.Duration(cfg.Session.TTLMin)*time.Minute, logger)
	go sessions.Sweep(ctx, time.Duration(cfg.Session.SweepSecInt)*time.Second)

	feedClient := feed.NewClient(cfg.Feed.URL, time.Duration(cfg.Feed.TimeoutSec)*time.Second, logger)

	server := chiTransport.NewServer(
		searchSvc, panelSvc, catalogSvc, chatSvc,
		sessions, feedClient, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.Mount(r, server)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// genaiHealthChecker wraps domain.Embedder to implement health.GenAIChecker.
type genaiHealthChecker struct {
	embedder domain.Embedder
}

func newGenAIHealthChecker(embedder domain.Embedder) *genaiHealthChecker {
	return &genaiHealthChecker{embedder: embedder}
}

func (h *genaiHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(interface{ HealthCheck(context.Context) error }); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("genai health check: %w", err)
		}
	}
	return nil
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
						"code":    "internal_error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
