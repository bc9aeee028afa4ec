// Practice Coach - conversation practice server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashureev/practice-coach/internal/api"
	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/config"
	"github.com/ashureev/practice-coach/internal/identity"
	"github.com/ashureev/practice-coach/internal/middleware"
	"github.com/ashureev/practice-coach/internal/persona"
	"github.com/ashureev/practice-coach/internal/practice"
	"github.com/ashureev/practice-coach/internal/realtime"
	"github.com/ashureev/practice-coach/internal/store"
	"github.com/ashureev/practice-coach/internal/transcript"
	"github.com/ashureev/practice-coach/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	if deleted, err := repo.CleanupStaleHistory(context.Background(), cfg.HistoryRetention); err != nil {
		slog.Error("Failed to cleanup stale practice history", "error", err)
	} else if deleted > 0 {
		slog.Info("Stale practice history removed", "count", deleted)
	}

	transcripts, err := transcript.NewLogger(transcript.Config{
		Enabled:   cfg.Transcript.Enabled,
		Dir:       cfg.Transcript.Dir,
		QueueSize: cfg.Transcript.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize transcript logger", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)
	listeners := practice.Listeners{hub}
	if transcripts != nil {
		listeners = append(listeners, transcripts)
	}

	registry := practice.NewRegistry(practice.RegistryOptions{
		Catalog:     catalog.Default(),
		Generator:   persona.NewGenerator(persona.NewSeededSource(cfg.Practice.Seed)),
		Persistence: repo,
		Listener:    listeners,
		Logger:      logger,
		ReplyDelay:  cfg.Practice.ReplyDelay,
		ReplyJitter: cfg.Practice.ReplyJitter,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Stop()

	// Initialize handlers.
	practiceHandler := api.NewHandler(repo, registry, practice.AllowAll{}, limiter)
	healthHandler := api.NewHealthHandler(repo, registry)
	wsHandler := realtime.NewHandler(hub, registry, limiter, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", promhttp.Handler())

	// Everything else runs with an anonymous identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		practiceHandler.RegisterRoutes(r)
		r.Get("/ws/practice", wsHandler.ServeHTTP)
	})

	// Serve embedded practice client (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// WriteTimeout stays 0 so the websocket feed is not cut off.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	practice.StartIdleSweeper(ctx, registry, cfg.Practice.IdleTTL, cfg.Practice.SweepInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Archive in-flight sessions before the database closes.
	registry.Shutdown(shutdownCtx)
	if err := transcripts.Close(); err != nil {
		slog.Error("Failed to close transcript logger", "error", err)
	}

	slog.Info("Server stopped successfully")
}
