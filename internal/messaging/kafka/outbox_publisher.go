package kafka

import (
	"context"
	"database/sql"
	"encoding/json"

	"ippis-portal/internal/events"

	"go.uber.org/zap"
)

// OutboxPublisher stores activity events in outbox_events; the producer worker ships them to Kafka.
type OutboxPublisher struct {
	db     *sql.DB
	repo   OutboxRepository
	logger *zap.Logger
}

func NewOutboxPublisher(db *sql.DB, repo OutboxRepository, logger ...*zap.Logger) *OutboxPublisher {
	l := zap.L().Named("kafka.outbox.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.outbox.publisher")
	}
	return &OutboxPublisher{db: db, repo: repo, logger: l}
}

func (p *OutboxPublisher) Publish(ctx context.Context, event events.ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := OutboxEvent{
		ID:            event.ID,
		RequestID:     event.RequestID,
		AggregateType: event.Resource,
		AggregateID:   event.ResourceID,
		EventType:     event.EventType,
		Topic:         events.ActivityTopic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	}
	if err := ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		p.logger.Error("outbox begin tx failed", zap.String("request_id", event.RequestID), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := p.repo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		p.logger.Error("outbox persist failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		p.logger.Error("outbox commit failed", zap.String("request_id", event.RequestID), zap.Error(err))
		return err
	}

	p.logger.Debug("activity event queued",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
	)
	return nil
}
