package consumer

import (
	"context"
	"encoding/json"
	"time"

	"ippis-portal/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, event events.ActivityEvent) error
}

type Options struct {
	// WarnAfter is the number of failed attempts after which each retry is logged at error level.
	WarnAfter  int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// ConsumeActivity stores every activity event and commits it only once stored. Undecodable
// messages are committed and dropped. A commit covers every earlier offset of the partition,
// so a failing event is retried with capped backoff until it is stored or ctx ends; the
// consumer never skips past it.
func ConsumeActivity(
	ctx context.Context,
	reader MessageReader,
	recorder ActivityRecorder,
	logger *zap.Logger,
	opts Options,
) {
	if opts.WarnAfter <= 0 {
		opts.WarnAfter = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff < opts.Backoff {
		opts.MaxBackoff = 30 * time.Second
		if opts.MaxBackoff < opts.Backoff {
			opts.MaxBackoff = opts.Backoff
		}
	}

	log := logger.Named("kafka.consumer.activity")
	log.Info("activity consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("activity consumer stopped")
				return
			}
			log.Error("fetch activity message failed", zap.Error(err))
			if !sleep(ctx, opts.Backoff) {
				log.Info("activity consumer stopped")
				return
			}
			continue
		}

		var event events.ActivityEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode activity event failed",
				zap.Int64("offset", msg.Offset),
				zap.Int("partition", msg.Partition),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if !recordUntilStored(ctx, recorder, event, opts, log) {
			log.Info("activity consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit activity message failed", zap.Error(err))
			continue
		}

		log.Debug("activity event recorded",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.EventType),
		)
	}
}

// recordUntilStored returns false only when ctx ends before the event is stored.
func recordUntilStored(ctx context.Context, recorder ActivityRecorder, event events.ActivityEvent, opts Options, log *zap.Logger) bool {
	backoff := opts.Backoff
	for attempt := 1; ; attempt++ {
		err := recorder.Record(ctx, event)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("company_id", event.CompanyID),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		}
		if attempt >= opts.WarnAfter {
			log.Error("record activity event failed", fields...)
		} else {
			log.Warn("record activity event failed", fields...)
		}

		if !sleep(ctx, backoff) {
			return false
		}
		backoff *= 2
		if backoff > opts.MaxBackoff {
			backoff = opts.MaxBackoff
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
