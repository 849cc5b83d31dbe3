package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/trogers1052/trading-position-modeler/internal/api"
	"github.com/trogers1052/trading-position-modeler/internal/cache"
	"github.com/trogers1052/trading-position-modeler/internal/config"
	"github.com/trogers1052/trading-position-modeler/internal/database"
	"github.com/trogers1052/trading-position-modeler/internal/kafka"
	"github.com/trogers1052/trading-position-modeler/internal/logger"
	"github.com/trogers1052/trading-position-modeler/internal/notify"
	"github.com/trogers1052/trading-position-modeler/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting trading position modeler")

	// Initialize database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pingers := map[string]api.Pinger{"database": db}
	notifiers := []notify.Notifier{notify.NewLogNotifier(log)}
	var opts []service.Option

	// Render cache
	if cfg.Redis.CacheEnabled() {
		renderCache := cache.New(cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cfg.Redis.TTL, log)
		defer renderCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := renderCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, renders will be recomputed until it recovers")
		}
		cancel()

		pingers["redis"] = renderCache
		opts = append(opts, service.WithCache(renderCache))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var consumerDone chan struct{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, cfg.Kafka.NotificationsTopic, log)
		defer producer.Close()

		notifiers = append(notifiers, producer)
		opts = append(opts, service.WithEvents(producer))
	}

	notifier := notify.NewFanout(notifiers...)
	positions := service.NewPositionService(db, notifier, log, opts...)

	// Snapshot imports write straight to the repository
	if cfg.Kafka.Enabled && cfg.Kafka.ImportTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ImportTopic, cfg.Kafka.GroupID, db, notifier, log)
		consumerDone = make(chan struct{})
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Position import consumer stopped")
			}
		}()
	}

	// Initialize HTTP server
	router := api.SetupRoutes(
		api.NewHandler(positions, pingers, log),
		api.RequestLogger(log),
		api.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
	)
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.WithCORS(router, cfg.HTTP.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdown(srv, stop, consumerDone, cfg.Server.ShutdownTimeout, log)
	log.Info().Msg("Server stopped")
}

// shutdown drains HTTP requests first, then stops the import consumer
func shutdown(srv *http.Server, stopConsumer context.CancelFunc, consumerDone <-chan struct{}, timeout time.Duration, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	stopConsumer()
	if consumerDone == nil {
		return
	}
	select {
	case <-consumerDone:
	case <-ctx.Done():
		log.Warn().Msg("Position import consumer did not stop before the shutdown timeout")
	}
}
