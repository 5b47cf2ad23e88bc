package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"ippis-portal/internal/activity"
	"ippis-portal/internal/config"
	"ippis-portal/internal/events"
	"ippis-portal/internal/messaging/kafka/consumer"
	"ippis-portal/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer records activity events into activity_logs until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.Retries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	activityService := activity.NewService(activity.NewRepository(gormDB), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.ActivityTopic,
		GroupID:        cfg.Kafka.ActivityGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeActivity(ctx, reader, activityService, logger, consumer.Options{})

	log.Info("consumer shutting down")
	return nil
}
