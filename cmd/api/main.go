// Package main is the entry point for the API server.
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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/api"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/auth"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/config"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/db"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/feed"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/geo"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/health"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/middleware"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/post"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/ranking"
	"github.com/KrishnaGrg1/Roamly-Backend/internal/trip"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if *help {
		fmt.Println("Roamly API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if cfg == nil {
		// Config file unreadable; no environment to pick a handler from.
		slog.SetDefault(middleware.NewLogger("development"))
		for _, err := range errs {
			slog.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if len(errs) > 0 {
		for _, err := range errs {
			slog.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	slog.Info("configuration loaded", slog.Any("config", cfg.LogSummary()))

	// Database
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 5*time.Second)
	conn, err := db.Connect(connectCtx, cfg.DatabaseURL)
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Redis is optional. Without it, engagement counts live in process
	// memory and reset on restart.
	var redisClient *redis.Client
	var engagementStore post.EngagementStore
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		engagementStore = post.NewRedisEngagementStore(redisClient)
		slog.Info("using redis engagement store", "addr", cfg.RedisAddr)
	} else {
		engagementStore = post.NewInMemoryEngagementStore()
		slog.Info("using in-memory engagement store")
	}

	// Ranking engine
	profiles, err := ranking.LoadCalibration(cfg.FeedCalibrationPath)
	if err != nil {
		slog.Warn("falling back to default weight profiles", "error", err)
	}

	metrics := ranking.NewMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		slog.Error("failed to register ranking metrics", "error", err)
		os.Exit(1)
	}

	ranker := ranking.NewRanker(geo.NewStaticResolver(), profiles,
		ranking.WithMetrics(metrics))

	// Repositories and services
	postRepo := post.NewPostgresRepository(conn, logger)
	tripRepo := trip.NewPostgresRepository(conn, logger)
	profiler := feed.NewViewerProfiler(tripRepo)
	feedService := feed.NewService(postRepo, tripRepo, engagementStore, ranker, profiler, logger,
		feed.WithLimits(cfg.FeedDefaultLimit, cfg.FeedMaxLimit))

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// HTTP handlers
	checkers := map[string]health.Checker{
		"database": health.NewDBChecker(conn),
	}
	if redisClient != nil {
		checkers["redis"] = health.NewRedisChecker(redisClient)
	}

	feedHandlers := api.NewFeedHandlers(feedService, jwtService, logger)
	engagementHandlers := api.NewEngagementHandlers(postRepo, engagementStore, jwtService, logger)
	healthHandlers := api.NewHealthHandlers(checkers)

	mux := api.Routes(feedHandlers, engagementHandlers, healthHandlers, api.MetricsHandler())

	// Apply middleware: RequestID -> Logging
	handler := middleware.RequestID(middleware.Logging(logger)(mux))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine so shutdown can be handled gracefully
	go func() {
		slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}

	slog.Info("server exited")
}
