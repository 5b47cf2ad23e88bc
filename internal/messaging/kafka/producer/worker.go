package producer

import (
	"context"
	"time"

	"ippis-portal/internal/messaging/kafka"
	"ippis-portal/internal/metrics"

	"go.uber.org/zap"
)

const defaultBatchSize = 50

const purgeEvery = time.Hour

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long delivered rows are kept; zero disables purging.
	Retention time.Duration
}

// ProcessOutboxEvents polls the outbox until ctx is cancelled. Failed publishes are rescheduled by
// MarkFailed with a growing delay. Delivered rows older than Retention are purged hourly.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	opts Options,
) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started",
		zap.Duration("poll_interval", opts.PollInterval),
		zap.Int("batch_size", opts.BatchSize),
		zap.Duration("retention", opts.Retention),
	)

	var lastPurge time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := ProcessPendingEvents(ctx, repo, writer, log, opts.BatchSize); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
			if opts.Retention > 0 && time.Since(lastPurge) >= purgeEvery {
				lastPurge = time.Now()
				PurgeDelivered(ctx, repo, log, lastPurge.Add(-opts.Retention))
			}
		}
	}
}

// ProcessPendingEvents runs one batch and returns how many events were sent.
func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	batchSize int,
) (int, error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			metrics.ObserveOutbox("failed")
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("request_id", event.RequestID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			status, markErr := repo.MarkFailed(ctx, event.ID, err.Error())
			if markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			} else if status == kafka.OutboxStatusDead {
				metrics.ObserveOutbox("dead")
				logger.Warn("outbox event gave up after max attempts",
					zap.String("outbox_id", event.ID),
					zap.Int("max_attempts", kafka.MaxOutboxAttempts),
				)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		metrics.ObserveOutbox("sent")
		sent++
		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return sent, nil
}

// PurgeDelivered removes sent rows processed before cutoff. Failures are logged only.
func PurgeDelivered(ctx context.Context, repo kafka.OutboxRepository, logger *zap.Logger, cutoff time.Time) {
	n, err := repo.PurgeSent(ctx, cutoff)
	if err != nil {
		logger.Error("purge delivered outbox events failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("purged delivered outbox events", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
}
