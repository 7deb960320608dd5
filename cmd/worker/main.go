package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/adapters/event"
	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const consumerGroup = "devconnector-activity"

// worker consumes the domain event topics and writes one audit log line
// per event.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.Log.Level)
	defer func() { _ = appLogger.Sync() }()

	consumer, err := event.NewKafkaConsumer(cfg, consumerGroup, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	audit := appLogger.Named("activity")
	appLogger.Info("Worker listening", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("group", consumerGroup))

	err = consumer.Run(ctx, func(_ context.Context, evt service.DomainEvent) error {
		audit.Info("Activity",
			zap.String("topic", evt.Topic),
			zap.String("event_type", string(evt.Type)),
			zap.String("user_id", evt.UserID),
			zap.String("resource_id", evt.ResourceID),
			zap.Time("occurred_at", evt.OccurredAt))
		return nil
	})
	if err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker stopped")
}
