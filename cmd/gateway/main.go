package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/application"
	"github.com/DanielPopoola/sberbank-gateway/internal/application/services"
	"github.com/DanielPopoola/sberbank-gateway/internal/config"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/sberbank-gateway/internal/worker"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/IBM/sarama"
)

type publisher interface {
	application.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"sberbank_test_endpoint", cfg.Sberbank.UseTest,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	orderRepo := postgres.NewOrderRepository(db)

	transport := sberbank.NewRetryTransport(
		sberbank.NewFormTransport(&http.Client{Timeout: cfg.Sberbank.ConnTimeout}),
		sberbank.RetryPolicy{
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxRetries: cfg.Retry.MaxRetries,
		},
	)
	sberClient, err := sberbank.NewClient(
		cfg.Sberbank.Username,
		cfg.Sberbank.Password,
		cfg.Sberbank.UseTest,
		sberbank.WithTransport(transport),
		sberbank.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create sberbank client", "error", err)
		os.Exit(1)
	}

	eventPublisher, err := newPublisher(cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	defer eventPublisher.Close()

	orderService := services.NewOrderService(orderRepo, sberClient, eventPublisher, logger)

	doc, err := rest.LoadOpenAPIDocument(ctx)
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}
	validation, err := middleware.RequestValidation(doc, logger)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handlers.NewHandlers(orderService, logger).RegisterRoutes(mux)

	handler := validation(mux)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	poller := worker.NewStatusPoller(
		orderRepo,
		orderService,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		cfg.Worker.MinAge,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go poller.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) (publisher, error) {
	if !cfg.Enabled() {
		logger.Info("kafka brokers not configured, status events disabled")
		return events.NoopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, events.NewProducerConfig())
	if err != nil {
		return nil, err
	}
	logger.Info("publishing status events", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return events.NewKafkaPublisher(producer, cfg.Topic, logger), nil
}
