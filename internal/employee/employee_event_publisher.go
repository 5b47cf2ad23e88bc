package employee

import (
	"context"

	"ippis-portal/internal/events"

	"go.uber.org/zap"
)

// publish enqueues the activity event. The backend write already succeeded, so a failed
// enqueue is logged and swallowed.
func (s *service) publish(ctx context.Context, eventType, employeeID, summary string) {
	event := events.NewActivityEvent(ctx, eventType, "employee", employeeID, summary)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("employee activity enqueue failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", eventType),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("employee activity queued",
		zap.String("event_id", event.ID),
		zap.String("event_type", eventType),
	)
}
